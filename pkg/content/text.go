package content

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanText turns a metadata string into plain single-line text:
// markup is stripped, entities decoded, whitespace collapsed and the result NFC-normalized.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := html.UnescapeString(strictPolicy.Sanitize(raw))
	return norm.NFC.String(strings.Join(strings.Fields(stripped), " "))
}

// CleanBody normalizes extracted article text, keeping one paragraph per line
func CleanBody(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return norm.NFC.String(strings.Join(kept, "\n"))
}

// Truncate cuts s to at most limit characters and appends "..." when it cut anything
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " \n") + "..."
}

// Length returns the number of characters in s
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
