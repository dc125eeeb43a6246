package urls

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"malawi-news/pkg/httpclient"
)

// maxPageBytes caps how much of a page body is read
const maxPageBytes = 8 << 20

// URLExtractor is a function type that extracts URLs from HTML content.
// pageURL is the address the HTML was fetched from and is used to resolve relative links.
type URLExtractor func(pageURL, html string) ([]URL, error)

// HTMLFetcher handles fetching HTML pages and extracting URLs using a provided extractor
type HTMLFetcher struct {
	client    *httpclient.HTTPClient
	extractor URLExtractor
}

// NewHTMLFetcher creates a new HTML fetcher with the given client and extractor function
func NewHTMLFetcher(client *httpclient.HTTPClient, extractor URLExtractor) *HTMLFetcher {
	return &HTMLFetcher{
		client:    client,
		extractor: extractor,
	}
}

// Fetch implements URLsFetcher interface - fetches HTML from the given URL and extracts URLs
func (f *HTMLFetcher) Fetch(ctx context.Context, url string) ([]URL, error) {
	html, err := FetchHTML(ctx, f.client, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch HTML: %w", err)
	}

	urls, err := f.extractURLsFromHTML(url, html)
	if err != nil {
		return nil, fmt.Errorf("failed to extract URLs: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs found in HTML")
	}

	return urls, nil
}

// FetchHTML fetches the HTML content from the given URL
func FetchHTML(ctx context.Context, client *httpclient.HTTPClient, url string) (string, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// extractURLsFromHTML extracts URLs from HTML using the configured extractor
func (f *HTMLFetcher) extractURLsFromHTML(pageURL, html string) ([]URL, error) {
	if f.extractor == nil {
		return nil, fmt.Errorf("extractor function is not set")
	}

	return f.extractor(pageURL, html)
}
