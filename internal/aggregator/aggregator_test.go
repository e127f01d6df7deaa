package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"saasradar/internal/model"
	"saasradar/pkg/llm"
)

type fakeSource struct {
	name  string
	items []model.NewsItem
	fail  bool
	delay time.Duration
}

func (f *fakeSource) Name() string { return f.name }

// Fetch mirrors the adapter contract: failures are swallowed and yield an
// empty batch.
func (f *fakeSource) Fetch(ctx context.Context) []model.NewsItem {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail {
		return nil
	}
	return f.items
}

type fakeFilter struct {
	results []llm.RelevanceResult
	err     error
}

func (f *fakeFilter) FilterRelevance(ctx context.Context, headlines []llm.Headline) ([]llm.RelevanceResult, error) {
	return f.results, f.err
}

func item(title, source, feedName string) model.NewsItem {
	return model.NewsItem{
		Title:       title,
		URL:         "https://example.com/" + title,
		Source:      source,
		FeedName:    feedName,
		PublishedAt: time.Now(),
	}
}

func TestRefreshToleratesFailingSource(t *testing.T) {
	healthy1 := &fakeSource{name: "rss", items: []model.NewsItem{
		item("Salesforce cuts guidance on AI pressure", model.SourceRSS, "Stratechery"),
		item("Anthropic raises new funding round", model.SourceRSS, "Techmeme"),
	}}
	healthy2 := &fakeSource{name: "social", items: []model.NewsItem{
		item("Agents will restructure the software stack", model.SourceTwitter, "Tomasz Tunguz"),
	}}
	broken := &fakeSource{name: "reddit", fail: true}

	agg := New(nil, []Source{healthy1, broken, healthy2}, nil, nil, nil)
	err := agg.Refresh(context.Background())
	assert.Equal(t, nil, err)

	got := agg.News(context.Background(), Query{Limit: 50})
	assert.Equal(t, 3, len(got))

	// Sorted descending by score
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("items not sorted by score: %d before %d", got[i-1].Score, got[i].Score)
		}
	}
	for _, it := range got {
		assert.NotEqual(t, it.Source, model.SourceReddit)
		if it.Score < 0 || it.Score > 100 {
			t.Errorf("score %d out of range", it.Score)
		}
		assert.NotEqual(t, it.Category, "")
		assert.NotEqual(t, it.ContentType, "")
	}
}

func TestRefreshPressWinsDedupTies(t *testing.T) {
	press := &fakeSource{name: "pressproxy", items: []model.NewsItem{
		item("OpenAI launches enterprise agent platform", model.SourceWSJ, "Wall Street Journal"),
	}}
	community := &fakeSource{name: "rss", items: []model.NewsItem{
		item("OpenAI launches enterprise agent platform - HN", model.SourceHackerNews, "Hacker News"),
	}}

	agg := New(press, []Source{community}, nil, nil, nil)
	err := agg.Refresh(context.Background())
	assert.Equal(t, nil, err)

	got := agg.News(context.Background(), Query{Limit: 50})
	assert.Equal(t, 1, len(got))
	assert.Equal(t, model.SourceWSJ, got[0].Source)
}

func TestRefreshFetchesSourcesConcurrently(t *testing.T) {
	const perSource = 60 * time.Millisecond

	press := &fakeSource{name: "pressproxy", delay: perSource, items: []model.NewsItem{
		item("Institutional story on cloud spend", model.SourceWSJ, "Wall Street Journal"),
	}}
	community := []Source{
		&fakeSource{name: "rss", delay: perSource, items: []model.NewsItem{
			item("Community take on cloud spend shifts", model.SourceRSS, "Techmeme"),
		}},
		&fakeSource{name: "social", delay: perSource, items: []model.NewsItem{
			item("Short thread on infra margins", model.SourceTwitter, "Tomasz Tunguz"),
		}},
	}

	agg := New(press, community, nil, nil, nil)

	start := time.Now()
	err := agg.Refresh(context.Background())
	elapsed := time.Since(start)

	assert.Equal(t, nil, err)
	// Three sources at 60ms each: serial would take 180ms+. Leave headroom
	// for scheduling jitter.
	if elapsed >= 2*perSource {
		t.Fatalf("refresh took %v, sources are not fetched concurrently", elapsed)
	}

	got := agg.News(context.Background(), Query{Limit: 50})
	assert.Equal(t, 3, len(got))
}

func TestRefreshFilterFailureFallsBack(t *testing.T) {
	press := &fakeSource{name: "pressproxy", items: []model.NewsItem{
		item("WSJ story about enterprise software", model.SourceWSJ, "Wall Street Journal"),
	}}

	agg := New(press, nil, &fakeFilter{err: errors.New("bad json")}, nil, nil)
	err := agg.Refresh(context.Background())
	assert.Equal(t, nil, err)

	got := agg.News(context.Background(), Query{Limit: 50})
	assert.Equal(t, 1, len(got))
	assert.Equal(t, 0, got[0].AIBonus)
}

func TestRefreshFilterAppliesBonus(t *testing.T) {
	pressItem := item("AI startup funding wave hits enterprise software", model.SourceWSJ, "Wall Street Journal")
	press := &fakeSource{name: "pressproxy", items: []model.NewsItem{pressItem}}

	filter := &fakeFilter{results: []llm.RelevanceResult{
		{Index: 0, RelevanceScore: 92, Tag: "Macro", Summary: "funding wave"},
	}}

	agg := New(press, nil, filter, nil, nil)
	err := agg.Refresh(context.Background())
	assert.Equal(t, nil, err)

	got := agg.News(context.Background(), Query{Limit: 50})
	assert.Equal(t, 1, len(got))
	assert.Equal(t, "Macro", got[0].ZoneTag)

	withoutBonus := ScoreAt(pressItem, time.Now())
	assert.Equal(t, clamp(withoutBonus+15, 0, 100), got[0].Score)
}

func TestQueryFilters(t *testing.T) {
	src := &fakeSource{name: "rss", items: []model.NewsItem{
		item("Startup raised $40M Series B", model.SourceRSS, "Techmeme"),
		item("Q3 earnings beat expectations", model.SourceRSS, "Techmeme"),
		item("Short take on agents", model.SourceTwitter, "Tomasz Tunguz"),
	}}

	agg := New(nil, []Source{src}, nil, nil, nil)
	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	fundraising := agg.News(context.Background(), Query{Category: model.CategoryFundraising, Limit: 10})
	assert.Equal(t, 1, len(fundraising))
	assert.Equal(t, "Startup raised $40M Series B", fundraising[0].Title)

	short := agg.News(context.Background(), Query{ContentType: model.ContentTypeShortForm, Limit: 10})
	assert.Equal(t, 1, len(short))
	assert.Equal(t, model.SourceTwitter, short[0].Source)

	bySource := agg.News(context.Background(), Query{Source: model.SourceRSS, Limit: 10})
	assert.Equal(t, 2, len(bySource))
}

func TestQueryPagination(t *testing.T) {
	var items []model.NewsItem
	for _, title := range []string{
		"First completely distinct story about chips",
		"Second unrelated piece on biotech markets",
		"Third take concerning rocket launches",
	} {
		items = append(items, item(title, model.SourceRSS, "Techmeme"))
	}
	src := &fakeSource{name: "rss", items: items}

	agg := New(nil, []Source{src}, nil, nil, nil)
	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	page := agg.News(context.Background(), Query{Limit: 2, Offset: 2})
	assert.Equal(t, 1, len(page))

	past := agg.News(context.Background(), Query{Limit: 2, Offset: 10})
	assert.Equal(t, 0, len(past))
}

func TestFundraisingSlice(t *testing.T) {
	src := &fakeSource{name: "rss", items: []model.NewsItem{
		item("Startup raised $40M Series B", model.SourceRSS, "Techmeme"),
		item("Unrelated platform story", model.SourceRSS, "Techmeme"),
	}}

	agg := New(nil, []Source{src}, nil, nil, nil)

	// Cold start: Fundraising triggers the first refresh itself.
	got := agg.Fundraising(context.Background(), 10)
	assert.Equal(t, 1, len(got))
	assert.Equal(t, model.CategoryFundraising, got[0].Category)
}

type fakeSearcher struct {
	items []model.NewsItem
}

func (f *fakeSearcher) SearchCompany(ctx context.Context, companyName string) []model.NewsItem {
	return f.items
}

func TestSearchCompanyScoresAndRanks(t *testing.T) {
	searcher := &fakeSearcher{items: []model.NewsItem{
		item("Acme ships boring update", model.SourceHackerNews, "Hacker News"),
		item("Acme pivots to ai agent platform", model.SourceHackerNews, "Hacker News"),
	}}

	agg := New(nil, nil, nil, searcher, nil)
	got := agg.SearchCompany(context.Background(), "Acme", 10)

	assert.Equal(t, 2, len(got))
	assert.Equal(t, "Acme pivots to ai agent platform", got[0].Title)
}

type memorySnapshotCache struct {
	data []byte
}

func (m *memorySnapshotCache) Save(data []byte) error { m.data = data; return nil }
func (m *memorySnapshotCache) Load() ([]byte, error)  { return m.data, nil }

func TestWarmStartFromSnapshotCache(t *testing.T) {
	src := &fakeSource{name: "rss", items: []model.NewsItem{
		item("Persisted story", model.SourceRSS, "Techmeme"),
	}}
	warm := &memorySnapshotCache{}

	first := New(nil, []Source{src}, nil, nil, warm)
	if err := first.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// A fresh aggregator with no sources serves the cached snapshot.
	second := New(nil, nil, nil, nil, warm)
	got := second.News(context.Background(), Query{Limit: 10})
	assert.Equal(t, 1, len(got))
	assert.Equal(t, "Persisted story", got[0].Title)
}
