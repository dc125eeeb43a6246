package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBrowserClient_SetsHeaders(t *testing.T) {
	var gotUA, gotCache string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCache = r.Header.Get("Cache-Control")
	}))
	defer server.Close()

	client := NewClientWithOptions(Options{
		Type:      BrowserClient,
		Timeout:   5 * time.Second,
		UserAgent: "test-agent/1.0",
	})

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if gotUA != "test-agent/1.0" {
		t.Errorf("Expected User-Agent 'test-agent/1.0', got %q", gotUA)
	}
	if gotCache != "no-cache" {
		t.Errorf("Expected Cache-Control 'no-cache', got %q", gotCache)
	}
}

func TestClient_HeadersAppliedToLibraryRequests(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewClient(CloudflareClient)

	// Requests made straight through the exposed http.Client still get headers
	resp, err := client.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if gotUA != "curl/8.7.1" {
		t.Errorf("Expected curl User-Agent, got %q", gotUA)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClientWithOptions(Options{Type: BrowserClient, Timeout: 20 * time.Millisecond})

	if _, err := client.Get(context.Background(), server.URL); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestHostRateLimiter_SpacesRequestsPerHost(t *testing.T) {
	limiter := NewHostRateLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.WaitForHost(ctx, "https://example.com/a"); err != nil {
			t.Fatalf("WaitForHost failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("Expected at least ~100ms for 3 requests, got %s", elapsed)
	}

	// A different host has its own budget
	start = time.Now()
	if err := limiter.WaitForHost(ctx, "https://other.example.org/"); err != nil {
		t.Fatalf("WaitForHost failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Millisecond {
		t.Errorf("Expected no wait for a new host, got %s", elapsed)
	}
}

func TestHostRateLimiter_MissingHost(t *testing.T) {
	limiter := NewHostRateLimiter(time.Second)

	if err := limiter.WaitForHost(context.Background(), "/relative/path"); err == nil {
		t.Fatal("Expected error for URL without host, got nil")
	}
}

func TestHostRateLimiter_Disabled(t *testing.T) {
	var limiter *HostRateLimiter
	if err := limiter.WaitForHost(context.Background(), "/no/host"); err != nil {
		t.Fatalf("nil limiter should not fail: %v", err)
	}
}
