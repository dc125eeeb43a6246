package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"malawi-news/pkg/httpclient"
)

const articleHTML = `<!doctype html>
<html lang="en">
<head>
	<title>Parliament approves 2025 budget</title>
	<meta property="og:title" content="Parliament approves 2025 budget">
	<meta name="description" content="Lawmakers passed the K5 trillion budget after a week of debate.">
	<meta name="author" content="John Banda">
	<meta property="og:image" content="/wp-content/uploads/parliament.jpg">
	<meta property="article:published_time" content="2025-03-01T08:00:00+02:00">
</head>
<body>
	<nav><a href="/">Home</a> <a href="/news/">News</a></nav>
	<article>
		<h1>Parliament approves 2025 budget</h1>
		<p>Parliament in Lilongwe on Friday approved the national budget for the 2025/26 fiscal year after a week of heated debate between the governing coalition and the opposition benches.</p>
		<p>The Minister of Finance told the House that the budget prioritises agriculture, health and education, with a large share of development spending going towards irrigation schemes in the southern region.</p>
		<p>Opposition legislators argued that the revenue projections were too optimistic given the recent depreciation of the kwacha and the slow recovery of tobacco exports.</p>
		<p>The budget now goes to the President for assent, after which treasury will begin disbursing funds to ministries and district councils across the country.</p>
	</article>
	<footer>Copyright Nyasa Times</footer>
</body>
</html>`

func TestParseArticle(t *testing.T) {
	got, err := ParseArticle("https://www.nyasatimes.com/parliament-approves-budget/", articleHTML)
	require.NoError(t, err)

	assert.Equal(t, "https://www.nyasatimes.com/parliament-approves-budget/", got.URL)
	assert.Equal(t, "Parliament approves 2025 budget", got.Title)
	assert.Contains(t, got.Text, "approved the national budget")
	assert.GreaterOrEqual(t, Length(got.Text), 120)
	assert.NotEmpty(t, got.Summary)
	assert.Contains(t, got.Authors, "John Banda")
	assert.Equal(t, "https://www.nyasatimes.com/wp-content/uploads/parliament.jpg", got.TopImage)

	require.NotNil(t, got.Published)
	assert.True(t, got.Published.Equal(time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)), "got %s", got.Published)
}

func TestHTTPExtractor_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	extractor := NewHTTPExtractor(httpclient.NewClient(httpclient.BrowserClient))
	got, err := extractor.Extract(context.Background(), server.URL+"/story/")
	require.NoError(t, err)

	assert.Equal(t, "Parliament approves 2025 budget", got.Title)
	assert.Equal(t, server.URL+"/wp-content/uploads/parliament.jpg", got.TopImage)
}

func TestHTTPExtractor_Extract_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: ErrUnexpectedStatus,
		},
		{
			name: "pdf",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Write([]byte("%PDF-1.4"))
			},
			want: ErrNotHTML,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Write([]byte("   "))
			},
			want: ErrEmptyPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			extractor := NewHTTPExtractor(httpclient.NewClient(httpclient.BrowserClient))
			_, err := extractor.Extract(context.Background(), server.URL)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestExtractPublished_Sources(t *testing.T) {
	tests := []struct {
		name string
		html string
		want time.Time
	}{
		{
			name: "time element",
			html: `<html><body><time datetime="2025-02-10T14:30:00Z">10 Feb</time></body></html>`,
			want: time.Date(2025, 2, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name: "json-ld",
			html: `<html><head><script type="application/ld+json">{"@type":"NewsArticle","datePublished":"2025-01-05T09:15:00+02:00"}</script></head></html>`,
			want: time.Date(2025, 1, 5, 7, 15, 0, 0, time.UTC),
		},
		{
			name: "date without zone is utc",
			html: `<html><head><meta name="pubdate" content="2025-04-20 10:00:00"></head></html>`,
			want: time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			got := ExtractPublished(doc)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestExtractPublished_KeepsOffset(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><meta property="article:published_time" content="2025-03-01T08:00:00+02:00"></head></html>`))
	require.NoError(t, err)

	got := ExtractPublished(doc)
	require.NotNil(t, got)
	_, offset := got.Zone()
	assert.Equal(t, 2*60*60, offset)
}

func TestExtractPublished_Unparseable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><meta property="article:published_time" content="sometime last week"></head></html>`))
	require.NoError(t, err)

	assert.Nil(t, ExtractPublished(doc))
}

func TestExtractAuthors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><meta name="author" content="Mary Phiri"><meta property="article:author" content="https://facebook.com/x"></head></html>`))
	require.NoError(t, err)

	got := ExtractAuthors(doc, "By John Banda and Mary Phiri")
	assert.Equal(t, []string{"John Banda", "Mary Phiri"}, got)
}

func TestExtractAuthors_None(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html></html>`))
	require.NoError(t, err)

	assert.Empty(t, ExtractAuthors(doc, ""))
}
