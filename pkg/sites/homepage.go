package sites

import (
	"context"
	"fmt"

	"malawi-news/pkg/httpclient"
	"malawi-news/pkg/urls"
)

// HomepageDiscoverer builds the candidate article list of a site from its front page
type HomepageDiscoverer struct {
	fetcher     urls.URLsFetcher
	extraFilter []urls.UrlFilter
}

// NewHomepageDiscoverer creates a discoverer that fetches pages with client,
// extracts links with ExtractHomepageLinks and drops links robots.txt disallows
func NewHomepageDiscoverer(client *httpclient.HTTPClient) *HomepageDiscoverer {
	return &HomepageDiscoverer{
		fetcher:     urls.NewHTMLFetcher(client, ExtractHomepageLinks),
		extraFilter: []urls.UrlFilter{urls.NewRobotsFilter(client)},
	}
}

// Discover returns article links found on homepageURL in page order.
// Links must be on the site's host and look like article pages.
func (d *HomepageDiscoverer) Discover(ctx context.Context, homepageURL string) ([]string, error) {
	found, err := d.fetcher.Fetch(ctx, homepageURL)
	if err != nil {
		return nil, fmt.Errorf("discover links on %s: %w", homepageURL, err)
	}

	links := make([]string, 0, len(found))
	for _, u := range found {
		links = append(links, u.Location)
	}

	filters := append([]urls.UrlFilter{
		urls.NewSameHostFilter(homepageURL),
		urls.NewBaseURLFilter(),
		urls.NewContentPathFilter(),
	}, d.extraFilter...)

	return urls.FilterURLs(ctx, links, filters...)
}
