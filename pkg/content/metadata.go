package content

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

var reDatePublishedJSON = regexp.MustCompile(`"datePublished"\s*:\s*"([^"]+)"`)

// bylineSeparators split a byline such as "By John Banda and Mary Phiri" into names
var bylineSeparators = regexp.MustCompile(`(?i)\s*(?:,|;|&|\band\b|\|)\s*`)

// publishedSelectors are metadata locations of the publish time, most specific first.
// The second element is the attribute holding the value.
var publishedSelectors = [][2]string{
	{"meta[property='article:published_time']", "content"},
	{"meta[property='og:published_time']", "content"},
	{"meta[itemprop='datePublished']", "content"},
	{"meta[name='pubdate']", "content"},
	{"meta[name='publishdate']", "content"},
	{"meta[name='date']", "content"},
	{"meta[name='dc.date']", "content"},
	{"[itemprop='datePublished']", "datetime"},
	{"time[datetime]", "datetime"},
}

// ExtractPublished returns the publish time declared by the page, in the page's own offset, or nil
func ExtractPublished(doc *goquery.Document) *time.Time {
	for _, sel := range publishedSelectors {
		value, exists := doc.Find(sel[0]).First().Attr(sel[1])
		if !exists {
			continue
		}
		if t := parseDate(value); t != nil {
			return t
		}
	}

	var found *time.Time
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if m := reDatePublishedJSON.FindStringSubmatch(s.Text()); m != nil {
			found = parseDate(m[1])
		}
		return found == nil
	})

	return found
}

// parseDate parses a free-form date; values without a zone are taken as UTC
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}

// ExtractAuthors collects author names from the readability byline and author metadata.
// Names keep first-seen order and are not repeated.
func ExtractAuthors(doc *goquery.Document, byline string) []string {
	var authors []string
	seen := make(map[string]bool)

	add := func(raw string) {
		for _, name := range splitByline(raw) {
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			authors = append(authors, name)
		}
	}

	add(byline)
	doc.Find("meta[name='author'], meta[property='article:author']").Each(func(i int, s *goquery.Selection) {
		if value, exists := s.Attr("content"); exists && !strings.HasPrefix(value, "http") {
			add(value)
		}
	})
	if len(authors) == 0 {
		doc.Find("[rel='author']").Each(func(i int, s *goquery.Selection) {
			add(s.Text())
		})
	}

	return authors
}

func splitByline(byline string) []string {
	byline = CleanText(byline)
	if byline == "" {
		return nil
	}

	lower := strings.ToLower(byline)
	if strings.HasPrefix(lower, "by ") {
		byline = byline[3:]
	}

	var names []string
	for _, part := range bylineSeparators.Split(byline, -1) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
