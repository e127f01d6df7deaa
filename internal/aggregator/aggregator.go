package aggregator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"saasradar/internal/model"
	"saasradar/pkg/llm"
)

// Source is one upstream news provider. Fetch never fails: adapters recover
// from network, auth, and parse errors internally and return what they have.
type Source interface {
	Fetch(ctx context.Context) []model.NewsItem
	Name() string
}

// CompanySearcher looks up news for a single company on demand.
type CompanySearcher interface {
	SearchCompany(ctx context.Context, companyName string) []model.NewsItem
}

// RelevanceFilter is the optional reasoning pass over press-proxy items.
type RelevanceFilter interface {
	FilterRelevance(ctx context.Context, headlines []llm.Headline) ([]llm.RelevanceResult, error)
}

// SnapshotCache persists the latest snapshot across restarts. Optional.
type SnapshotCache interface {
	Save(data []byte) error
	Load() ([]byte, error)
}

// Query filters and paginates the cached snapshot.
type Query struct {
	Category    string
	Source      string
	ContentType string
	Sort        string // "score" (default) or "recent"
	Limit       int
	Offset      int
}

type snapshot struct {
	All         []model.NewsItem `json:"all"`
	Fundraising []model.NewsItem `json:"fundraising"`
	RefreshedAt time.Time        `json:"refreshed_at"`
}

// Aggregator fans out to every configured source, merges, deduplicates,
// scores, and serves the result from an atomically swapped snapshot.
type Aggregator struct {
	press    Source
	sources  []Source
	filter   RelevanceFilter
	searcher CompanySearcher
	warm     SnapshotCache

	refreshMu sync.Mutex
	snap      atomic.Pointer[snapshot]
}

func New(press Source, sources []Source, filter RelevanceFilter, searcher CompanySearcher, warm SnapshotCache) *Aggregator {
	return &Aggregator{
		press:    press,
		sources:  sources,
		filter:   filter,
		searcher: searcher,
		warm:     warm,
	}
}

// Refresh rebuilds the snapshot from every source. A failing source
// contributes nothing; it never blocks or corrupts the others.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	var pressItems []model.NewsItem
	results := make([][]model.NewsItem, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	if a.press != nil {
		g.Go(func() error {
			pressItems = a.fetchPress(gctx)
			return nil
		})
	}
	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = src.Fetch(gctx)
			return nil
		})
	}
	g.Wait()

	// Press-proxy merges first: it wins dedup ties against community
	// restatements of the same story.
	all := pressItems
	for _, items := range results {
		all = append(all, items...)
	}

	all = a.process(all, time.Now())

	fundraising := make([]model.NewsItem, 0)
	for _, item := range all {
		if item.Category == model.CategoryFundraising {
			fundraising = append(fundraising, item)
		}
	}

	snap := &snapshot{All: all, Fundraising: fundraising, RefreshedAt: time.Now()}
	a.snap.Store(snap)
	a.saveWarm(snap)

	top := 0
	if len(all) > 0 {
		top = all[0].Score
	}
	slog.Info("news refresh complete", "items", len(all), "fundraising", len(fundraising), "top_score", top)
	return ctx.Err()
}

// process runs the full pipeline: categorize, dedupe, score, classify, sort.
func (a *Aggregator) process(items []model.NewsItem, now time.Time) []model.NewsItem {
	for i := range items {
		if items[i].Category == "" {
			items[i].Category = Categorize(items[i].Title)
		}
	}

	items = Dedupe(items)

	for i := range items {
		score := ScoreAt(items[i], now)
		if items[i].AIBonus > 0 {
			score = clamp(score+items[i].AIBonus, 0, 100)
		}
		items[i].Score = score
		items[i].ContentType = ClassifyContentType(items[i].Source)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}

// fetchPress pulls press-proxy items and runs the optional relevance filter,
// falling back to the unfiltered items if the filter misbehaves.
func (a *Aggregator) fetchPress(ctx context.Context) []model.NewsItem {
	items := a.press.Fetch(ctx)
	if a.filter == nil || len(items) == 0 {
		return items
	}

	headlines := make([]llm.Headline, len(items))
	for i, item := range items {
		headlines[i] = llm.Headline{Source: item.Source, Title: item.Title}
	}

	results, err := a.filter.FilterRelevance(ctx, headlines)
	if err != nil {
		slog.Error("relevance filter failed, using unfiltered press items", "error", err)
		return items
	}

	filtered := make([]model.NewsItem, 0, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(items) {
			continue
		}
		item := items[r.Index]
		item.AIBonus = FilterBonus(r.RelevanceScore)
		item.AISummary = r.Summary
		item.ZoneTag = r.Tag
		filtered = append(filtered, item)
	}

	slog.Info("relevance filter applied", "passed", len(filtered), "submitted", len(items))
	return filtered
}

// News serves the current snapshot with filters and pagination. It refreshes
// only on cold start; staleness is the scheduler's problem.
func (a *Aggregator) News(ctx context.Context, q Query) []model.NewsItem {
	snap := a.ensureSnapshot(ctx)
	if snap == nil {
		return nil
	}

	items := snap.All
	filtered := make([]model.NewsItem, 0, len(items))
	for _, item := range items {
		if q.Category != "" && item.Category != q.Category {
			continue
		}
		if q.Source != "" && item.Source != q.Source {
			continue
		}
		if q.ContentType != "" && item.ContentType != q.ContentType {
			continue
		}
		filtered = append(filtered, item)
	}

	if q.Sort == "recent" {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].PublishedAt.After(filtered[j].PublishedAt)
		})
	}

	return paginate(filtered, q.Limit, q.Offset)
}

// Fundraising serves the fundraising-tagged slice of the snapshot.
func (a *Aggregator) Fundraising(ctx context.Context, limit int) []model.NewsItem {
	snap := a.ensureSnapshot(ctx)
	if snap == nil {
		return nil
	}
	return paginate(snap.Fundraising, limit, 0)
}

// SearchCompany fetches, scores, and ranks news for one company.
func (a *Aggregator) SearchCompany(ctx context.Context, companyName string, limit int) []model.NewsItem {
	if a.searcher == nil {
		return nil
	}
	items := a.searcher.SearchCompany(ctx, companyName)
	items = a.process(items, time.Now())
	return paginate(items, limit, 0)
}

func (a *Aggregator) ensureSnapshot(ctx context.Context) *snapshot {
	if snap := a.snap.Load(); snap != nil {
		return snap
	}

	if snap := a.loadWarm(); snap != nil {
		a.snap.Store(snap)
		return snap
	}

	if err := a.Refresh(ctx); err != nil {
		slog.Error("cold-start refresh failed", "error", err)
	}
	return a.snap.Load()
}

func (a *Aggregator) saveWarm(snap *snapshot) {
	if a.warm == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("snapshot marshal failed", "error", err)
		return
	}
	if err := a.warm.Save(data); err != nil {
		slog.Warn("snapshot cache write failed", "error", err)
	}
}

func (a *Aggregator) loadWarm() *snapshot {
	if a.warm == nil {
		return nil
	}
	data, err := a.warm.Load()
	if err != nil {
		slog.Warn("snapshot cache read failed", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("snapshot cache decode failed", "error", err)
		return nil
	}
	return &snap
}

func paginate(items []model.NewsItem, limit, offset int) []model.NewsItem {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []model.NewsItem{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
