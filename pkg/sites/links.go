package sites

import (
	"fmt"
	"net/url"
	"strings"

	"malawi-news/pkg/urls"

	"github.com/PuerkitoBio/goquery"
)

// headlineSelector matches story headline links on the WordPress news themes
// (JNews, Newspaper, generic) the configured Malawian sites run.
const headlineSelector = "h1 a, h2 a, h3 a, h4 a, " +
	".entry-title a, .post-title a, .jeg_post_title a, .td-module-title a, " +
	"a.entry-title, a.post-title"

// pageChrome matches containers whose links are site navigation or promotion, never the story list
const pageChrome = "nav, header, footer, aside, .menu, .sidebar, .widget, .jeg_header, .td-header-wrap"

// ExtractHomepageLinks lists the story links of a news homepage in homepage order.
//
// The order is: headline links first, in document order; then any other link
// inside an <article> teaser (image and "read more" links) not already listed;
// and only when neither yields anything, every content-looking link on the page.
// Links inside page chrome are ignored, fragments are dropped and each URL is listed once.
// Relative links resolve against <base href> when present, else against pageURL.
func ExtractHomepageLinks(pageURL, html string) ([]urls.URL, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := resolveBase(doc, pageURL)
	if err != nil {
		return nil, err
	}

	list := &linkList{base: base, seen: make(map[string]bool)}

	list.addAll(doc.Find(headlineSelector))
	list.addAll(doc.Find("article a"))

	if len(list.links) == 0 {
		doc.Find("body a").Each(func(i int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok && urls.IsContentLink(href) {
				list.add(a)
			}
		})
	}

	if len(list.links) == 0 {
		return nil, fmt.Errorf("no story links found on %s", pageURL)
	}
	return list.links, nil
}

// resolveBase returns the URL relative links of the page resolve against
func resolveBase(doc *goquery.Document, pageURL string) (*url.URL, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			return page.ResolveReference(ref), nil
		}
	}
	return page, nil
}

// linkList accumulates unique story links
type linkList struct {
	base  *url.URL
	seen  map[string]bool
	links []urls.URL
}

func (l *linkList) addAll(sel *goquery.Selection) {
	sel.Each(func(i int, a *goquery.Selection) {
		l.add(a)
	})
}

func (l *linkList) add(a *goquery.Selection) {
	if a.Closest(pageChrome).Length() > 0 {
		return
	}

	href, ok := a.Attr("href")
	if !ok {
		return
	}
	location := l.absolute(href)
	if location == "" || l.seen[location] {
		return
	}
	l.seen[location] = true

	title := strings.Join(strings.Fields(a.Text()), " ")
	if title == "" {
		title = strings.TrimSpace(a.AttrOr("title", ""))
	}

	l.links = append(l.links, urls.URL{Location: location, Title: title})
}

// absolute resolves href to an absolute http(s) URL without fragment, or "" when it is not a page link
func (l *linkList) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := l.base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
