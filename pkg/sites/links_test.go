package sites

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"malawi-news/pkg/httpclient"
	"malawi-news/pkg/urls"
)

const homepageHTML = `<!doctype html>
<html>
<head><title>Malawi 24</title></head>
<body>
	<header><h1><a href="/">Malawi 24</a></h1><a href="/about/">About</a></header>
	<nav><a href="/category/news/">News</a></nav>
	<main>
		<article>
			<a class="thumb" href="/2025/03/01/mk-weakens/"><img src="/a.jpg"></a>
			<h3><a href="/2025/03/01/mk-weakens/">Kwacha   weakens
				against dollar</a></h3>
			<a href="/2025/03/01/mk-weakens/#more">Read more</a>
		</article>
		<article>
			<a href="/author/staff/">Staff</a>
			<h3><a href="https://malawi24.com/2025/03/01/rains-return/">Rains return to the south</a></h3>
		</article>
		<div class="jeg_block">
			<div class="jeg_post_title"><a href="/2025/03/01/flames-win/" title="Flames win">
				<span></span></a></div>
		</div>
		<aside class="sidebar">
			<h3><a href="/2025/02/28/older-story/">Older story</a></h3>
		</aside>
	</main>
	<footer><a href="https://twitter.com/malawi24">Twitter</a> <a href="mailto:news@malawi24.com">Mail</a></footer>
</body>
</html>`

func locations(found []urls.URL) []string {
	out := make([]string, 0, len(found))
	for _, u := range found {
		out = append(out, u.Location)
	}
	return out
}

func TestExtractHomepageLinks_HeadlinesFirst(t *testing.T) {
	// Input: teasers whose image link precedes the headline, a JNews title block,
	// and links in header, nav, sidebar and footer
	// Expected Output: headlines in page order, then other teaser links; chrome ignored
	found, err := ExtractHomepageLinks("https://malawi24.com/", homepageHTML)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://malawi24.com/2025/03/01/mk-weakens/",
		"https://malawi24.com/2025/03/01/rains-return/",
		"https://malawi24.com/2025/03/01/flames-win/",
		"https://malawi24.com/author/staff/",
	}, locations(found))

	assert.Equal(t, "Kwacha weakens against dollar", found[0].Title)
	assert.Equal(t, "Flames win", found[2].Title)
}

func TestExtractHomepageLinks_UsesBaseTag(t *testing.T) {
	html := `<html><head><base href="https://times.mw/"></head>
<body><article><a href="news/story-1/">Story 1</a></article></body></html>`

	found, err := ExtractHomepageLinks("https://mirror.example.com/", html)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "https://times.mw/news/story-1/", found[0].Location)
}

func TestExtractHomepageLinks_FallsBackToContentLinks(t *testing.T) {
	html := `<html><body>
<nav><a href="/2025/01/01/menu-story/">Menu story</a></nav>
<div class="list">
	<a href="/category/politics/">Politics</a>
	<a href="/2025/03/02/budget-vote/">Budget vote</a>
	<a href="javascript:void(0)">Share</a>
	<a href="/contact/">Contact</a>
</div>
</body></html>`

	found, err := ExtractHomepageLinks("https://www.manaonline.gov.mw/", html)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.manaonline.gov.mw/2025/03/02/budget-vote/"}, locations(found))
}

func TestExtractHomepageLinks_NoLinks(t *testing.T) {
	_, err := ExtractHomepageLinks("https://times.mw/", "<html><body><p>nothing</p></body></html>")
	assert.Error(t, err)
}

func TestHomepageDiscoverer_Discover(t *testing.T) {
	mux := http.NewServeMux()
	var serverURL string
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /premium/\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
<article><h2><a href="/story-one/">One</a></h2></article>
<article><h2><a href="/premium/story-two/">Two</a></h2></article>
<article><h2><a href="/tag/politics/">Politics</a></h2></article>
<article><h2><a href="%s/story-three/">Three</a></h2></article>
<article><h2><a href="https://elsewhere.example.org/story/">Elsewhere</a></h2></article>
<article><h2><a href="/">Home</a></h2></article>
</body></html>`, serverURL)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	d := NewHomepageDiscoverer(httpclient.NewClient(httpclient.BrowserClient))
	links, err := d.Discover(context.Background(), server.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, []string{
		server.URL + "/story-one/",
		server.URL + "/story-three/",
	}, links)
}

func TestHomepageDiscoverer_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewHomepageDiscoverer(httpclient.NewClient(httpclient.BrowserClient))
	_, err := d.Discover(context.Background(), server.URL+"/")
	assert.Error(t, err)
}
