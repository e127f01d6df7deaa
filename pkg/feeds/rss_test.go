package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/mmcdole/gofeed"

	"saasradar/internal/model"
)

func rssFeedXML(items string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>test feed</title>` + items + `</channel></rss>`
}

func serveRSS(t *testing.T, hits *atomic.Int64, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchNormalizesEntries(t *testing.T) {
	body := rssFeedXML(`
<item>
  <title>Agents replace dashboards</title>
  <link>https://example.com/a</link>
  <description>&lt;p&gt;Article URL: https://example.com/a&lt;/p&gt; Points: 87 | Comments: 12</description>
  <pubDate>Mon, 31 Aug 2026 10:00:00 GMT</pubDate>
</item>
<item>
  <title>No date on this one</title>
  <link>https://example.com/b</link>
  <description>plain text</description>
</item>
<item>
  <title>  </title>
  <link>https://example.com/skipped</link>
</item>`)
	server := serveRSS(t, nil, body)

	client := NewRSSClient([]Feed{{URL: server.URL, Name: "Hacker News", SourceTag: model.SourceHackerNews}})
	items := client.Fetch(context.Background())

	assert.Equal(t, 2, len(items))

	first := items[0]
	assert.Equal(t, "Agents replace dashboards", first.Title)
	assert.Equal(t, model.SourceHackerNews, first.Source)
	assert.Equal(t, "Hacker News", first.FeedName)
	assert.Equal(t, "Article URL: https://example.com/a Points: 87 | Comments: 12", first.Summary)
	assert.Equal(t, 87, first.Engagement["points"])
	assert.Equal(t, 12, first.Engagement["comments"])
	assert.Equal(t, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC), first.PublishedAt.UTC())

	// No pubDate: the fetch time stands in.
	second := items[1]
	if time.Since(second.PublishedAt) > time.Minute {
		t.Fatalf("expected fetch-time fallback, got %v", second.PublishedAt)
	}
}

func TestFetchBoundsSummaryLength(t *testing.T) {
	body := rssFeedXML(`
<item>
  <title>Very long writeup</title>
  <link>https://example.com/long</link>
  <description>&lt;div&gt;` + strings.Repeat("filler words here ", 100) + `&lt;/div&gt;</description>
</item>`)
	server := serveRSS(t, nil, body)

	client := NewRSSClient([]Feed{{URL: server.URL, Name: "blog", SourceTag: model.SourceRSS}})
	items := client.Fetch(context.Background())

	assert.Equal(t, 1, len(items))
	if len(items[0].Summary) > summaryMaxLen {
		t.Fatalf("summary is %d bytes, want at most %d", len(items[0].Summary), summaryMaxLen)
	}
}

func TestFetchBrokenFeedContributesNothing(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream melted", http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	healthy := serveRSS(t, nil, rssFeedXML(`
<item><title>Still here</title><link>https://example.com/ok</link></item>`))

	client := NewRSSClient([]Feed{
		{URL: broken.URL, Name: "broken", SourceTag: model.SourceRSS},
		{URL: healthy.URL, Name: "healthy", SourceTag: model.SourceRSS},
	})
	items := client.Fetch(context.Background())

	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Still here", items[0].Title)
}

func TestFetchServesRepeatCallsFromCache(t *testing.T) {
	var hits atomic.Int64
	server := serveRSS(t, &hits, rssFeedXML(`
<item><title>Cached story</title><link>https://example.com/c</link></item>`))

	client := NewRSSClient([]Feed{{URL: server.URL, Name: "cached", SourceTag: model.SourceRSS}})
	client.Fetch(context.Background())
	client.Fetch(context.Background())

	assert.Equal(t, int64(1), hits.Load())
}

func TestExtractEngagementReddit(t *testing.T) {
	entry := &gofeed.Item{Content: "submitted by u/someone 42 points and comments"}
	metrics := extractEngagement(entry, model.SourceReddit)
	assert.Equal(t, 42, metrics["score"])
}

func TestExtractEngagementAbsentIsNil(t *testing.T) {
	entry := &gofeed.Item{Description: "nothing numeric in here"}
	if extractEngagement(entry, model.SourceRSS) != nil {
		t.Fatal("expected nil metrics for a plain entry")
	}
}
