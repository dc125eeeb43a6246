package urls

import (
	"context"
	"io"
	"log"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"malawi-news/pkg/httpclient"
)

// RobotsFilter drops URLs that the host's robots.txt disallows for the client's user agent.
// robots.txt is fetched once per host; hosts whose robots.txt cannot be fetched are allowed.
type RobotsFilter struct {
	client *httpclient.HTTPClient
	agent  string

	mu    sync.Mutex
	rules map[string]*robotstxt.RobotsData
}

// NewRobotsFilter creates a robots.txt filter using the client for fetching
func NewRobotsFilter(client *httpclient.HTTPClient) *RobotsFilter {
	return &RobotsFilter{
		client: client,
		agent:  client.UserAgent(),
		rules:  make(map[string]*robotstxt.RobotsData),
	}
}

// ShouldKeep returns false if robots.txt disallows the URL's path
func (f *RobotsFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return true, nil
	}

	data := f.rulesFor(ctx, parsed)
	if data == nil {
		return true, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}

	return data.TestAgent(path, f.agent), nil
}

func (f *RobotsFilter) rulesFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	f.mu.Lock()
	data, ok := f.rules[key]
	f.mu.Unlock()
	if ok {
		return data
	}

	data = f.fetch(ctx, key+"/robots.txt")

	f.mu.Lock()
	f.rules[key] = data
	f.mu.Unlock()

	return data
}

func (f *RobotsFilter) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	resp, err := f.client.Get(ctx, robotsURL)
	if err != nil {
		log.Printf("RobotsFilter: could not fetch %s: %v", robotsURL, err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		log.Printf("RobotsFilter: could not read %s: %v", robotsURL, err)
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		log.Printf("RobotsFilter: could not parse %s: %v", robotsURL, err)
		return nil
	}
	return data
}
