package feeds

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"saasradar/internal/model"
)

// Google News aggregates paywalled publications and exposes them as RSS, so
// tier-1 press is reachable without per-site subscriptions.

var pressProxySites = []string{
	"wsj.com",
	"reuters.com",
	"ft.com",
	"bloomberg.com",
	"cnbc.com",
}

var pressProxyQueries = []string{
	"AI OR SaaS OR Antitrust OR Cloud",
	"artificial intelligence enterprise software",
	"AI startup funding",
}

const itemsPerQuery = 15

// PressProxyClient surfaces institutional press via Google News RSS search.
type PressProxyClient struct {
	parser *gofeed.Parser
	cache  *ttlCache
}

func NewPressProxyClient() *PressProxyClient {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &PressProxyClient{
		parser: parser,
		cache:  newTTLCache(pressCacheTTL),
	}
}

func (c *PressProxyClient) Name() string {
	return "pressproxy"
}

// Fetch runs every topic query and merges results, dropping exact URL
// duplicates across queries.
func (c *PressProxyClient) Fetch(ctx context.Context) []model.NewsItem {
	var mu sync.Mutex
	var all []model.NewsItem

	g, gctx := errgroup.WithContext(ctx)
	for _, query := range pressProxyQueries {
		query := query
		g.Go(func() error {
			items := c.fetchQuery(gctx, query)
			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	seen := make(map[string]bool, len(all))
	unique := make([]model.NewsItem, 0, len(all))
	for _, item := range all {
		if item.URL == "" || seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		unique = append(unique, item)
	}

	slog.Info("press-proxy fetch complete", "unique", len(unique), "total", len(all))
	return unique
}

func (c *PressProxyClient) fetchQuery(ctx context.Context, topicQuery string) []model.NewsItem {
	if items, ok := c.cache.get(topicQuery); ok {
		return items
	}

	feedURL := buildPressProxyURL(topicQuery)
	parsed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		slog.Error("press-proxy query failed", "query", topicQuery, "error", err)
		return nil
	}

	entries := parsed.Items
	if len(entries) > itemsPerQuery {
		entries = entries[:itemsPerQuery]
	}

	items := make([]model.NewsItem, 0, len(entries))
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		source := inferPressSource(entry.Link, title)
		items = append(items, model.NewsItem{
			Title:       title,
			URL:         entry.Link,
			Source:      source,
			FeedName:    pressSourceDisplayName(source),
			Summary:     cleanSummary(entry.Description),
			PublishedAt: entryDate(entry),
		})
	}

	c.cache.set(topicQuery, items)
	return items
}

func buildPressProxyURL(topicQuery string) string {
	sites := make([]string, len(pressProxySites))
	for i, s := range pressProxySites {
		sites[i] = "site:" + s
	}
	q := "(" + strings.Join(sites, " OR ") + ") AND (" + topicQuery + ")"
	return "https://news.google.com/rss/search?q=" + url.QueryEscape(q) + "&hl=en-US&gl=US&ceid=US:en"
}

// inferPressSource identifies the original publication from the proxied URL
// and title. Google News titles often end with " - Publisher Name".
func inferPressSource(itemURL, title string) string {
	combined := strings.ToLower(itemURL + " " + title)
	switch {
	case strings.Contains(combined, "wsj.com") || strings.Contains(combined, "wall street journal"):
		return model.SourceWSJ
	case strings.Contains(combined, "reuters"):
		return model.SourceReuters
	case strings.Contains(combined, "ft.com") || strings.Contains(combined, "financial times"):
		return model.SourceFT
	case strings.Contains(combined, "bloomberg"):
		return model.SourceBloomberg
	case strings.Contains(combined, "cnbc"):
		return model.SourceCNBC
	default:
		return model.SourceInstitutional
	}
}

func pressSourceDisplayName(source string) string {
	switch source {
	case model.SourceWSJ:
		return "Wall Street Journal"
	case model.SourceReuters:
		return "Reuters"
	case model.SourceFT:
		return "Financial Times"
	case model.SourceBloomberg:
		return "Bloomberg"
	case model.SourceCNBC:
		return "CNBC"
	default:
		return "Institutional"
	}
}
