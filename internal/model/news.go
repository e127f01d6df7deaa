package model

import "time"

// Source tags set by the feed adapters.
const (
	SourceRSS        = "rss"
	SourceHackerNews = "hackernews"
	SourceReddit     = "reddit"
	SourceTechCrunch = "techcrunch"
	SourcePodcast    = "podcast"
	SourceTwitter    = "twitter"

	SourceWSJ           = "wsj"
	SourceReuters       = "reuters"
	SourceFT            = "ft"
	SourceBloomberg     = "bloomberg"
	SourceCNBC          = "cnbc"
	SourceInstitutional = "institutional"
)

const (
	CategoryFundraising   = "fundraising"
	CategoryEarnings      = "earnings"
	CategoryProductLaunch = "product_launch"
	CategoryAIDisruption  = "ai_disruption"
)

const (
	ContentTypeLongForm  = "long_form"
	ContentTypeShortForm = "short_form"
)

// NewsItem is the normalized shape every adapter produces. It lives only in
// the aggregator's in-memory snapshot, never in the database.
type NewsItem struct {
	Title       string
	URL         string
	Source      string
	FeedName    string
	Summary     string
	ImageURL    string
	PublishedAt time.Time
	Engagement  map[string]int
	Category    string
	ContentType string
	Score       int

	// Set by the relevance filter for press-proxy items.
	AIBonus   int
	AISummary string
	ZoneTag   string
}
