package urls

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"malawi-news/pkg/domain"
	"malawi-news/pkg/httpclient"
)

// RSSParser handles RSS/Atom feed parsing operations
type RSSParser struct {
	feedParser *gofeed.Parser
}

// NewRSSParser creates a new RSS parser using the given HTTP client.
// A nil client falls back to gofeed's default client.
func NewRSSParser(client *httpclient.HTTPClient) *RSSParser {
	fp := gofeed.NewParser()
	if client != nil {
		fp.Client = client.Client()
		if ua := client.UserAgent(); ua != "" {
			fp.UserAgent = ua
		}
	}

	return &RSSParser{
		feedParser: fp,
	}
}

// fetch parses the feed at feedURL and returns its first limit items in feed order
// (limit <= 0 means all). Items without a link count towards the limit but are skipped.
func (p *RSSParser) fetch(ctx context.Context, feedURL string, limit int) ([]URL, error) {
	feed, err := p.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	urls := make([]URL, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		urls = append(urls, URL{
			Location:  link,
			Title:     strings.TrimSpace(item.Title),
			Published: itemTime(item),
		})
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no valid URLs found in feed items")
	}

	return urls, nil
}

// Entries returns candidates from the first limit entries of the feed. A feed that
// cannot be fetched or parsed yields no entries; the failure is only logged.
func (p *RSSParser) Entries(ctx context.Context, feedURL string, limit int) []domain.Candidate {
	urls, err := p.fetch(ctx, feedURL, limit)
	if err != nil {
		log.Printf("RSSParser: no entries from %s: %v", feedURL, err)
		return nil
	}

	candidates := make([]domain.Candidate, 0, len(urls))
	for _, u := range urls {
		candidates = append(candidates, domain.Candidate{URL: u.Location, Published: u.Published})
	}
	return candidates
}

// itemTime returns the published time of a feed item, falling back to the updated time.
// The feed's own zone offset is kept.
func itemTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}
