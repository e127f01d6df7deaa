package aggregator

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"saasradar/internal/model"
)

// Titles above this normalized similarity are treated as the same story.
// Sources restate the same headline with different suffixes and casing, and
// every source assigns its own canonical URL, so URL equality is not enough.
const titleSimilarityThreshold = 0.80

// Dedupe removes near-duplicate items by fuzzy title comparison. Single pass,
// order preserving: the first occurrence wins, so higher-authority sources
// should be merged in first. Items with empty titles are dropped.
//
// O(n²) in title comparisons, which is fine at a few hundred items per cycle.
func Dedupe(items []model.NewsItem) []model.NewsItem {
	lev := metrics.NewLevenshtein()

	seen := make([]string, 0, len(items))
	unique := make([]model.NewsItem, 0, len(items))

	for _, item := range items {
		title := strings.ToLower(strings.TrimSpace(item.Title))
		if title == "" {
			continue
		}

		dup := false
		for _, prior := range seen {
			if strutil.Similarity(title, prior, lev) > titleSimilarityThreshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		seen = append(seen, title)
		unique = append(unique, item)
	}

	return unique
}
