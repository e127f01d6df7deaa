package feeds

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"saasradar/internal/model"
)

// hnrss embeds engagement in the item description, e.g. "Points: 87 | Comments: 12".
var (
	hnPointsRe    = regexp.MustCompile(`(?i)Points:\s*(\d+)`)
	hnCommentsRe  = regexp.MustCompile(`(?i)Comments:\s*(\d+)`)
	redditScoreRe = regexp.MustCompile(`(?i)submitted.*?(\d+)\s*(?:points|upvotes)`)
)

// RSSClient reads the configured community and editorial feeds. It never
// fails: a broken feed logs and contributes nothing to the batch.
type RSSClient struct {
	feeds  []Feed
	parser *gofeed.Parser
	cache  *ttlCache
}

func NewRSSClient(feeds []Feed) *RSSClient {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSSClient{
		feeds:  feeds,
		parser: parser,
		cache:  newTTLCache(rssCacheTTL),
	}
}

func (c *RSSClient) Name() string {
	return "rss"
}

// Fetch reads every configured feed concurrently and merges the results.
func (c *RSSClient) Fetch(ctx context.Context) []model.NewsItem {
	var mu sync.Mutex
	var all []model.NewsItem

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, feed := range c.feeds {
		feed := feed
		g.Go(func() error {
			items := c.fetchFeed(gctx, feed)
			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return all
}

// SearchCompany queries Hacker News for a specific company name.
func (c *RSSClient) SearchCompany(ctx context.Context, companyName string) []model.NewsItem {
	feed := Feed{
		URL:       "https://hnrss.org/newest?q=" + url.QueryEscape(companyName),
		Name:      "HN: " + companyName,
		SourceTag: model.SourceHackerNews,
	}
	return c.fetchFeed(ctx, feed)
}

func (c *RSSClient) fetchFeed(ctx context.Context, feed Feed) []model.NewsItem {
	if items, ok := c.cache.get(feed.URL); ok {
		return items
	}

	parsed, err := c.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		slog.Error("rss feed fetch failed", "feed", feed.Name, "url", feed.URL, "error", err)
		return nil
	}

	entries := parsed.Items
	if len(entries) > itemsPerFeed {
		entries = entries[:itemsPerFeed]
	}

	items := make([]model.NewsItem, 0, len(entries))
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		item := model.NewsItem{
			Title:       title,
			URL:         entry.Link,
			Source:      feed.SourceTag,
			FeedName:    feed.Name,
			Summary:     cleanSummary(entrySummary(entry)),
			ImageURL:    entryImage(entry),
			PublishedAt: entryDate(entry),
			Engagement:  extractEngagement(entry, feed.SourceTag),
		}
		items = append(items, item)
	}

	c.cache.set(feed.URL, items)
	slog.Info("rss feed fetched", "feed", feed.Name, "items", len(items))
	return items
}

// entrySummary prefers full content over the summary field.
func entrySummary(entry *gofeed.Item) string {
	if entry.Content != "" {
		return entry.Content
	}
	return entry.Description
}

// entryDate is best-effort: unparsable dates fall back to fetch time.
func entryDate(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Now()
}

func entryImage(entry *gofeed.Item) string {
	if entry.Image != nil && strings.HasPrefix(entry.Image.URL, "http") {
		return entry.Image.URL
	}
	for _, enc := range entry.Enclosures {
		if strings.HasPrefix(enc.Type, "image") {
			return enc.URL
		}
	}
	return ""
}

// extractEngagement pulls platform counters embedded in feed markup.
func extractEngagement(entry *gofeed.Item, sourceTag string) map[string]int {
	metrics := map[string]int{}

	switch sourceTag {
	case model.SourceHackerNews:
		raw := entry.Description
		if m := hnPointsRe.FindStringSubmatch(raw); m != nil {
			metrics["points"] = mustAtoi(m[1])
		}
		if m := hnCommentsRe.FindStringSubmatch(raw); m != nil {
			metrics["comments"] = mustAtoi(m[1])
		}
	case model.SourceReddit:
		raw := entry.Content
		if raw == "" {
			raw = entry.Description
		}
		if m := redditScoreRe.FindStringSubmatch(raw); m != nil {
			metrics["score"] = mustAtoi(m[1])
		}
	}

	if len(metrics) == 0 {
		return nil
	}
	return metrics
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
