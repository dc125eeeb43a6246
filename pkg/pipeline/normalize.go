package pipeline

import (
	"strings"
	"time"

	"malawi-news/pkg/content"
	"malawi-news/pkg/domain"
)

// Qualifies reports whether an extraction is a usable article:
// a non-empty title and at least minTextLength characters of body text
func Qualifies(extraction *domain.Extraction, minTextLength int) bool {
	if extraction == nil {
		return false
	}
	if strings.TrimSpace(extraction.Title) == "" {
		return false
	}
	return content.Length(extraction.Text) >= minTextLength
}

// Normalize maps an extraction to an Article of site.
// The publish time comes from the feed entry when it has one, otherwise from the page;
// unknown publish times rank as the epoch.
func Normalize(extraction *domain.Extraction, candidate domain.Candidate, site string, opts Options, crawledAt time.Time) domain.Article {
	published := candidate.Published
	if published == nil {
		published = extraction.Published
	}

	// the display keeps the source's offset; only the ranking epoch is zone-free
	var timestamp int64
	if published != nil {
		timestamp = published.Unix()
	}

	summarySource := extraction.Summary
	if strings.TrimSpace(summarySource) == "" {
		summarySource = extraction.Text
	}

	return domain.Article{
		Title:       strings.TrimSpace(extraction.Title),
		Link:        candidate.URL,
		Published:   published,
		Timestamp:   timestamp,
		Summary:     content.Truncate(summarySource, opts.SummaryLimit),
		TextPreview: content.Truncate(extraction.Text, opts.PreviewLimit),
		Source:      site,
		Authors:     strings.Join(extraction.Authors, ", "),
		TopImage:    extraction.TopImage,
		CrawledAt:   crawledAt.UTC(),
	}
}
