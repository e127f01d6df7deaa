package feeds

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const summaryMaxLen = 400

// stripHTML flattens an HTML fragment to whitespace-normalized text.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// truncate cuts at a rune boundary so a multi-byte character at the limit is
// dropped whole instead of split into invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// cleanSummary strips markup and bounds the length for feed summaries.
func cleanSummary(raw string) string {
	return truncate(stripHTML(raw), summaryMaxLen)
}
