package pipeline

import (
	"sort"

	"malawi-news/pkg/domain"
)

// Rank returns the articles ordered newest first.
// Articles with equal timestamps keep their input order.
func Rank(articles []domain.Article) []domain.Article {
	ranked := make([]domain.Article, len(articles))
	copy(ranked, articles)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Timestamp > ranked[j].Timestamp
	})
	return ranked
}

// ToSnapshot converts ranked articles to their serialized form, dropping the
// internal timestamp and formatting the publish date for display
func ToSnapshot(articles []domain.Article) []domain.SnapshotEntry {
	entries := make([]domain.SnapshotEntry, 0, len(articles))
	for _, a := range articles {
		published := domain.PublishedUnavailable
		if a.Published != nil {
			published = a.Published.Format(domain.PublishedLayout)
		}

		entries = append(entries, domain.SnapshotEntry{
			Title:       a.Title,
			Link:        a.Link,
			Published:   published,
			Summary:     a.Summary,
			TextPreview: a.TextPreview,
			Source:      a.Source,
			Authors:     a.Authors,
			TopImage:    a.TopImage,
		})
	}
	return entries
}
