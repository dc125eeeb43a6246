package httpclient

import (
	"context"
	"net/http"
	"time"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// BrowserClient uses browser-like headers with the configured User-Agent.
	// News sites behind WordPress caching plugins serve full pages to it.
	BrowserClient ClientType = "browser"

	// CloudflareClient uses simple headers (like curl) to avoid 403 (Forbidden) errors
	// Used for Cloudflare-protected sites that block browser-like User-Agents
	CloudflareClient ClientType = "cloudflare"
)

// Options configures an HTTPClient
type Options struct {
	Type      ClientType
	Timeout   time.Duration // per request
	UserAgent string        // used by BrowserClient
	Limiter   *HostRateLimiter
}

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
	userAgent  string
}

// NewClient creates a new HTTP client with the specified type and no rate limiting
func NewClient(clientType ClientType) *HTTPClient {
	return NewClientWithOptions(Options{Type: clientType})
}

// NewClientWithOptions creates a new HTTP client. Every request made through it,
// including requests made by libraries handed Client(), carries the client
// headers and waits on the host rate limiter when one is set.
func NewClientWithOptions(opts Options) *HTTPClient {
	c := &HTTPClient{
		clientType: opts.Type,
		userAgent:  opts.UserAgent,
	}

	c.client = &http.Client{
		Timeout: opts.Timeout,
		Transport: &transport{
			base:    http.DefaultTransport,
			limiter: opts.Limiter,
			headers: c.setHeaders,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow up to 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return c
}

// Client exposes the underlying http.Client for libraries that accept one (gofeed)
func (c *HTTPClient) Client() *http.Client {
	return c.client
}

// UserAgent returns the User-Agent header value sent by this client
func (c *HTTPClient) UserAgent() string {
	switch c.clientType {
	case CloudflareClient:
		return "curl/8.7.1"
	case BrowserClient:
		return c.userAgent
	default:
		return ""
	}
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// setHeaders sets the appropriate headers based on client type.
// Headers already present on the request are left alone.
func (c *HTTPClient) setHeaders(req *http.Request) {
	set := func(key, value string) {
		if value != "" && req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	switch c.clientType {
	case BrowserClient:
		set("User-Agent", c.userAgent)
		set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		set("Accept-Language", "en-US,en;q=0.9")
		// Articles are always fetched fresh
		set("Cache-Control", "no-cache")
		set("Pragma", "no-cache")

	case CloudflareClient:
		// Cloudflare allows simple tools like curl but blocks browser-like User-Agents
		set("User-Agent", "curl/8.7.1")

	default:
		// Default: use Go's default User-Agent
	}
}

// transport applies client headers and host rate limiting before delegating
type transport struct {
	base    http.RoundTripper
	limiter *HostRateLimiter
	headers func(*http.Request)
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.WaitForHost(req.Context(), req.URL.String()); err != nil {
			return nil, err
		}
	}

	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	t.headers(req)

	return t.base.RoundTrip(req)
}
