package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"saasradar/db"
	"saasradar/internal/aggregator"
	"saasradar/pkg/feeds"
	"saasradar/pkg/llm"
)

// One-shot refresh: fetch every source, rebuild the snapshot, and write it to
// the redis cache so the next API start serves warm.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var warm aggregator.SnapshotCache
	if os.Getenv("REDIS_URL") != "" {
		if err := db.ConnectRedis(); err != nil {
			slog.Warn("redis unavailable, refresh result will not be cached", "error", err)
		} else {
			defer db.CloseRedis()
			warm = &db.SnapshotStore{TTL: time.Hour}
		}
	}

	var filter aggregator.RelevanceFilter
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		filter = llm.NewAnthropicClient(key)
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		filter = llm.NewOpenAIClient(key)
	}

	rssClient := feeds.NewRSSClient(feeds.DefaultFeeds)
	sources := []aggregator.Source{rssClient}

	social := feeds.NewSocialClient(os.Getenv("X_BEARER_TOKEN"))
	if social.Enabled() {
		sources = append(sources, social)
	}

	agg := aggregator.New(feeds.NewPressProxyClient(), sources, filter, rssClient, warm)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := agg.Refresh(ctx); err != nil {
		slog.Error("refresh failed", "error", err)
		os.Exit(1)
	}
	slog.Info("refresh finished", "took", time.Since(start).Round(time.Millisecond))
}
