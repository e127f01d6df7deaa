package feeds

import "time"

// Feed identifies one RSS/Atom source.
type Feed struct {
	URL       string
	Name      string
	SourceTag string
}

// DefaultFeeds is the standing registry of community and editorial sources.
var DefaultFeeds = []Feed{
	// Hacker News — points filter keeps the noise down
	{URL: "https://hnrss.org/newest?q=SaaS&points=5", Name: "Hacker News", SourceTag: "hackernews"},
	{URL: "https://hnrss.org/newest?q=AI+SaaS&points=3", Name: "Hacker News", SourceTag: "hackernews"},
	{URL: "https://techcrunch.com/category/artificial-intelligence/feed/", Name: "TechCrunch AI", SourceTag: "techcrunch"},
	// Reddit — "hot" surfaces posts with real engagement
	{URL: "https://www.reddit.com/r/SaaS/hot/.rss?limit=25", Name: "r/SaaS", SourceTag: "reddit"},
	{URL: "https://www.reddit.com/r/LocalLLaMA/hot/.rss?limit=25", Name: "r/LocalLLaMA", SourceTag: "reddit"},
	{URL: "https://www.reddit.com/r/artificial/hot/.rss?limit=15", Name: "r/artificial", SourceTag: "reddit"},
	{URL: "https://www.reddit.com/r/singularity/hot/.rss?limit=15", Name: "r/singularity", SourceTag: "reddit"},
	{URL: "https://www.reddit.com/r/ChatGPT/hot/.rss?limit=15", Name: "r/ChatGPT", SourceTag: "reddit"},
	// Substacks and blogs
	{URL: "https://tscsw.substack.com/feed", Name: "Don't Short SaaS", SourceTag: "rss"},
	{URL: "https://stratechery.com/feed/", Name: "Stratechery", SourceTag: "rss"},
	{URL: "https://blog.pragmaticengineer.com/rss/", Name: "Pragmatic Engineer", SourceTag: "rss"},
	{URL: "https://www.techmeme.com/feed.xml", Name: "Techmeme", SourceTag: "rss"},
	{URL: "https://feeds.arstechnica.com/arstechnica/technology-lab", Name: "Ars Technica", SourceTag: "rss"},
	{URL: "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml", Name: "The Verge AI", SourceTag: "rss"},
	{URL: "https://tomtunguz.com/index.xml", Name: "Tomasz Tunguz", SourceTag: "rss"},
	{URL: "https://thesaasplaybook.substack.com/feed", Name: "The SaaS Playbook", SourceTag: "rss"},
	{URL: "https://www.lennysnewsletter.com/feed", Name: "Lenny's Newsletter", SourceTag: "rss"},
	{URL: "https://www.notboring.co/feed", Name: "Not Boring", SourceTag: "rss"},
	{URL: "https://www.saastr.com/feed/", Name: "SaaStr", SourceTag: "rss"},
	{URL: "https://www.oneusefulthing.org/feed", Name: "One Useful Thing", SourceTag: "rss"},
	{URL: "https://simonwillison.net/atom/everything/", Name: "Simon Willison", SourceTag: "rss"},
	{URL: "https://www.newcomer.co/feed", Name: "Newcomer", SourceTag: "rss"},
}

// User-Agent header so Reddit doesn't 429 us.
const userAgent = "saasradar/1.0 (+https://github.com/saasradar)"

const (
	rssCacheTTL    = 15 * time.Minute
	pressCacheTTL  = 30 * time.Minute
	socialCacheTTL = 240 * time.Minute

	itemsPerFeed = 25
)
