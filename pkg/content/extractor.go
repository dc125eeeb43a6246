package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"malawi-news/pkg/domain"
	"malawi-news/pkg/httpclient"
)

// maxArticleBytes caps how much of an article page is read
const maxArticleBytes = 8 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNotHTML          = errors.New("response is not an HTML page")
	ErrEmptyPage        = errors.New("page body is empty")
	ErrNoContent        = errors.New("no article content found")
)

// Extractor downloads a URL and extracts the article on it.
// Any error means the URL did not yield an article.
type Extractor interface {
	Extract(ctx context.Context, url string) (*domain.Extraction, error)
}

// HTTPExtractor implements Extractor by fetching HTML with an httpclient
// and extracting the article with readability and goquery
type HTTPExtractor struct {
	client *httpclient.HTTPClient
}

// NewHTTPExtractor creates a new HTTP extractor
func NewHTTPExtractor(client *httpclient.HTTPClient) *HTTPExtractor {
	return &HTTPExtractor{client: client}
}

// Extract fetches the page at url and extracts its article
func (e *HTTPExtractor) Extract(ctx context.Context, url string) (*domain.Extraction, error) {
	htmlContent, err := e.fetchHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch HTML: %w", err)
	}

	return ParseArticle(url, htmlContent)
}

// fetchHTML fetches HTML content from a URL, rejecting non-HTML responses
func (e *HTTPExtractor) fetchHTML(ctx context.Context, url string) (string, error) {
	resp, err := e.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil && !strings.Contains(mediaType, "html") {
			return "", fmt.Errorf("%w: %s", ErrNotHTML, mediaType)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if strings.TrimSpace(string(body)) == "" {
		return "", ErrEmptyPage
	}

	return string(body), nil
}

// ParseArticle extracts the article from already downloaded HTML.
// Readability supplies title, text, excerpt, byline and lead image;
// page metadata fills in whatever readability could not find.
func ParseArticle(pageURL, htmlContent string) (*domain.Extraction, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := CleanText(article.Title)
	if title == "" {
		title = ExtractTitle(doc)
	}

	text := CleanBody(article.TextContent)
	if title == "" && text == "" {
		return nil, ErrNoContent
	}

	summary := CleanText(article.Excerpt)
	if summary == "" {
		summary = metaContent(doc, "meta[name='description']", "meta[property='og:description']")
	}

	image := strings.TrimSpace(article.Image)
	if image == "" {
		image = metaContent(doc, "meta[property='og:image']", "meta[name='twitter:image']")
	}

	return &domain.Extraction{
		URL:       pageURL,
		Title:     title,
		Text:      text,
		Summary:   summary,
		Authors:   ExtractAuthors(doc, article.Byline),
		Published: ExtractPublished(doc),
		TopImage:  resolveURL(parsedURL, image),
	}, nil
}

// ExtractTitle finds the article title in page metadata when readability has none
func ExtractTitle(doc *goquery.Document) string {
	if title := metaContent(doc, "meta[property='og:title']", "meta[name='title']"); title != "" {
		return title
	}

	// Try <h1> tag (often the main heading)
	if title := CleanText(doc.Find("h1").First().Text()); title != "" {
		return title
	}

	// Try <title> tag
	return CleanText(doc.Find("title").First().Text())
}

// metaContent returns the cleaned content attribute of the first selector that has one
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if value, exists := doc.Find(selector).First().Attr("content"); exists {
			if cleaned := CleanText(value); cleaned != "" {
				return cleaned
			}
		}
	}
	return ""
}

// resolveURL makes ref absolute against base; unparseable refs are returned as-is
func resolveURL(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil || base == nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
