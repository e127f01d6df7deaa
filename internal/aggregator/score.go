package aggregator

import (
	"math"
	"strings"
	"time"

	"saasradar/internal/model"
)

// Composite score = relevance (0-40) + popularity (0-30) + authority (0-20)
// + recency (0-10). Each part is clamped before summing, so the total stays
// in [0,100] even if one input is out of range.

// Editorial trust tier per feed identity, out of 20.
var sourceAuthority = map[string]int{
	// Institutional / paywalled
	"Wall Street Journal": 20,
	"Reuters":             19,
	"Financial Times":     19,
	"Bloomberg":           18,
	"CNBC":                16,
	"Institutional":       17,
	// Curated editorial
	"Stratechery":        20,
	"Techmeme":           18,
	"Don't Short SaaS":   18,
	"Pragmatic Engineer": 17,
	"Tomasz Tunguz":      20,
	"The SaaS Playbook":  18,
	"SaaStr":             17,
	"Lenny's Newsletter": 17,
	"Newcomer":           18,
	"Not Boring":         16,
	"One Useful Thing":   16,
	"Simon Willison":     16,
	// Major tech news
	"TechCrunch AI": 16,
	"Ars Technica":  14,
	"The Verge AI":  14,
	// Community-driven (engagement carries the weight instead)
	"Hacker News":       12,
	"r/SaaS":            10,
	"r/LocalLLaMA":      10,
	"r/MachineLearning": 12,
	"r/artificial":      9,
	"r/singularity":     9,
	"r/ChatGPT":         9,
}

const defaultAuthority = 8

// Keyword tiers for relevance. Within a tier only the first hit counts, but
// every tier can contribute once. Sum is capped at 40.
var relevanceTiers = []struct {
	keywords []string
	weight   int
}{
	{[]string{"saas disruption", "saas dead", "replacing saas", "saas collapse",
		"ai replacing", "ai agent", "ai-native", "ai native"}, 8},
	{[]string{"saas", "software-as-a-service", "b2b software", "enterprise software",
		"seat-based", "per-seat", "subscription software"}, 5},
	{[]string{"artificial intelligence", "machine learning", "large language model",
		"llm", "gpt", "claude", "gemini", "copilot", "foundation model",
		"frontier model", "ai startup"}, 4},
	{[]string{"revenue compression", "margin pressure", "churn", "displacement",
		"market share", "disruption", "competitive moat", "pricing power"}, 3},
	{[]string{"funding", "acquisition", "ipo", "earnings", "valuation",
		"open source", "developer tools", "cloud"}, 1},
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func relevanceScore(title, summary string) int {
	text := strings.ToLower(title + " " + summary)
	score := 0
	for _, tier := range relevanceTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(text, kw) {
				score += tier.weight
				break
			}
		}
	}
	return clamp(score, 0, 40)
}

func popularityScore(item model.NewsItem) int {
	eng := item.Engagement

	switch item.Source {
	case model.SourceHackerNews:
		// 100+ points is popular, 500+ is viral
		raw := float64(eng["points"]) + float64(eng["comments"])*0.5
		return clamp(int(raw/10), 0, 30)
	case model.SourceReddit:
		score := eng["score"]
		if score <= 0 {
			return 0
		}
		return clamp(int(math.Log2(float64(score))*3), 0, 30)
	case model.SourceTwitter:
		raw := eng["likes"] + eng["retweets"]*3
		if raw <= 0 {
			return 0
		}
		return clamp(int(math.Log2(float64(raw))*3), 0, 30)
	case model.SourceTechCrunch, model.SourceRSS:
		// Flat bonus for making it past an editor
		return 5
	case model.SourcePodcast:
		return 8
	}
	return 0
}

// recencyScore steps down from 10 to 0 as the item ages past 48 hours.
// Future-dated items (clock skew) count as maximally recent.
func recencyScore(publishedAt, now time.Time) int {
	if publishedAt.IsZero() {
		return 0
	}
	hours := now.Sub(publishedAt).Hours()
	switch {
	case hours < 0:
		return 10
	case hours <= 2:
		return 10
	case hours <= 6:
		return 8
	case hours <= 12:
		return 6
	case hours <= 24:
		return 4
	case hours <= 48:
		return 2
	default:
		return 0
	}
}

func authorityScore(feedName string) int {
	if w, ok := sourceAuthority[feedName]; ok {
		return clamp(w, 0, 20)
	}
	return defaultAuthority
}

// ScoreAt computes the composite score for an item as of a given time.
func ScoreAt(item model.NewsItem, now time.Time) int {
	score := relevanceScore(item.Title, item.Summary) +
		popularityScore(item) +
		authorityScore(item.FeedName) +
		recencyScore(item.PublishedAt, now)
	return clamp(score, 0, 100)
}

// Score computes the composite score for an item as of now.
func Score(item model.NewsItem) int {
	return ScoreAt(item, time.Now())
}

// FilterBonus converts the relevance filter's 0-100 rating into the flat
// bonus applied to press-proxy items.
func FilterBonus(aiScore int) int {
	switch {
	case aiScore >= 90:
		return 15
	case aiScore >= 75:
		return 10
	default:
		return 5
	}
}
