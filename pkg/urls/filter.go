package urls

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// UrlFilter defines the interface for URL filtering
type UrlFilter interface {
	ShouldKeep(ctx context.Context, url string) (bool, error)
}

// FilterURLs applies all filters to a list of URLs, keeping their order
func FilterURLs(ctx context.Context, urls []string, filters ...UrlFilter) ([]string, error) {
	filtered := make([]string, 0, len(urls))

	for _, urlStr := range urls {
		keep := true
		for _, f := range filters {
			shouldKeep, err := f.ShouldKeep(ctx, urlStr)
			if err != nil {
				return nil, fmt.Errorf("filter error for URL %s: %w", urlStr, err)
			}
			if !shouldKeep {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, urlStr)
		}
	}

	return filtered, nil
}

// BaseURLFilter filters out base/root URLs
type BaseURLFilter struct{}

// NewBaseURLFilter creates a new base URL filter
func NewBaseURLFilter() *BaseURLFilter {
	return &BaseURLFilter{}
}

// ShouldKeep returns false if URL is a base/root URL
func (f *BaseURLFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		// If we can't parse it, don't filter it out (let it fail later if needed)
		return true, nil
	}

	// Check if path is empty or just "/"
	path := strings.Trim(parsed.Path, "/")
	return path != "", nil
}

// SameHostFilter keeps only http(s) URLs on the same host as the site,
// treating a leading "www." as insignificant
type SameHostFilter struct {
	host string
}

// NewSameHostFilter creates a filter for the host of siteURL
func NewSameHostFilter(siteURL string) *SameHostFilter {
	host := ""
	if parsed, err := url.Parse(siteURL); err == nil {
		host = bareHost(parsed.Hostname())
	}
	return &SameHostFilter{host: host}
}

// ShouldKeep returns true if URL is on the site's host
func (f *SameHostFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false, nil
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false, nil
	}
	return f.host != "" && bareHost(parsed.Hostname()) == f.host, nil
}

func bareHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// nonArticlePatterns are path fragments of listing and utility pages
var nonArticlePatterns = []string{
	"/tag/", "/category/", "/author/", "/archive/",
	"/page/", "/search", "/feed", "/rss", "/atom",
	"/login", "/register", "/about", "/contact",
	"/privacy", "/terms", "/cookie", "/wp-admin", "/wp-login",
	"/advertise", "/subscribe",
}

// ContentPathFilter drops links that point at listing or utility pages
type ContentPathFilter struct{}

// NewContentPathFilter creates a new content path filter
func NewContentPathFilter() *ContentPathFilter {
	return &ContentPathFilter{}
}

// ShouldKeep returns false for tag, category, author, feed and similar pages
func (f *ContentPathFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	return IsContentLink(urlStr), nil
}

// IsContentLink checks if a link looks like a content/article link
func IsContentLink(href string) bool {
	lowerHref := strings.ToLower(href)
	for _, pattern := range nonArticlePatterns {
		if strings.Contains(lowerHref, pattern) {
			return false
		}
	}
	return true
}
