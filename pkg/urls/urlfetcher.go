package urls

import (
	"context"
	"time"
)

// URL represents a URL entry discovered from a feed or a web page
type URL struct {
	Location  string     // URL of the article
	Title     string     // Title of the article (optional)
	Published *time.Time // Publish time when the source supplies one (feeds)
}

// URLsFetcher defines the interface for URL discovery sources (feeds, HTML pages)
type URLsFetcher interface {
	Fetch(ctx context.Context, baseURL string) ([]URL, error)
}
