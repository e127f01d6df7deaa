package feeds

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"saasradar/internal/model"
)

func TestBuildPressProxyURL(t *testing.T) {
	got := buildPressProxyURL("AI startup funding")

	assert.Equal(t, true, strings.HasPrefix(got, "https://news.google.com/rss/search?q="))
	// site: filters and the topic survive escaping
	assert.Equal(t, true, strings.Contains(got, "site%3Awsj.com"))
	assert.Equal(t, true, strings.Contains(got, "site%3Areuters.com"))
	assert.Equal(t, true, strings.Contains(got, "AI+startup+funding"))
	assert.Equal(t, true, strings.HasSuffix(got, "&hl=en-US&gl=US&ceid=US:en"))
}

func TestInferPressSource(t *testing.T) {
	cases := []struct {
		url   string
		title string
		want  string
	}{
		{"https://www.wsj.com/tech/some-story", "Some story", model.SourceWSJ},
		{"https://news.google.com/rss/x", "Cloud slowdown - Reuters", model.SourceReuters},
		{"https://www.ft.com/content/abc", "Markets", model.SourceFT},
		{"https://news.google.com/rss/y", "AI capex - Bloomberg", model.SourceBloomberg},
		{"https://www.cnbc.com/2026/08/31/story.html", "Earnings", model.SourceCNBC},
		{"https://news.google.com/rss/z", "Untagged syndicated story", model.SourceInstitutional},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, inferPressSource(c.url, c.title))
	}
}

func TestPressSourceDisplayName(t *testing.T) {
	assert.Equal(t, "Wall Street Journal", pressSourceDisplayName(model.SourceWSJ))
	assert.Equal(t, "Institutional", pressSourceDisplayName("something-else"))
}
