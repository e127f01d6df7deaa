package feeds

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-playground/assert/v2"
)

func TestStripHTMLFlattensMarkup(t *testing.T) {
	in := "<p>Article URL: <a href=\"https://example.com\">link</a></p>\n<p>Points: 87</p>"
	assert.Equal(t, "Article URL: link Points: 87", stripHTML(in))
}

func TestStripHTMLNormalizesWhitespace(t *testing.T) {
	assert.Equal(t, "one two three", stripHTML("one\n\n  two\t three"))
	assert.Equal(t, "", stripHTML(""))
}

func TestCleanSummaryBoundsLength(t *testing.T) {
	long := "<div>" + strings.Repeat("word ", 200) + "</div>"
	got := cleanSummary(long)
	if len(got) > summaryMaxLen {
		t.Fatalf("summary is %d bytes, want at most %d", len(got), summaryMaxLen)
	}
	if strings.Contains(got, "<") {
		t.Fatalf("summary still contains markup: %q", got)
	}
}

func TestTruncateCutsAtRuneBoundary(t *testing.T) {
	// "é" is two bytes; the ASCII prefix pushes every rune onto an odd
	// offset so a naive byte slice would split one.
	s := "x" + strings.Repeat("é", summaryMaxLen)
	got := truncate(s, summaryMaxLen)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if len(got) > summaryMaxLen {
		t.Fatalf("truncated to %d bytes, want at most %d", len(got), summaryMaxLen)
	}

	assert.Equal(t, "short", truncate("short", summaryMaxLen))
}
