package stocks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

const historyCacheTTL = 15 * time.Minute

// PricePoint is one daily close for a ticker.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

type cacheEntry struct {
	points    []PricePoint
	fetchedAt time.Time
}

// Client fetches daily price history for public SaaS tickers.
type Client struct {
	api *finnhub.DefaultApiService

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewClient(apiKey string) *Client {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &Client{
		api:   finnhub.NewAPIClient(cfg).DefaultApi,
		cache: make(map[string]cacheEntry),
	}
}

// GetHistory returns daily closes per ticker over [start, end]. A ticker that
// fails upstream is simply absent from the result.
func (c *Client) GetHistory(ctx context.Context, tickers []string, start, end time.Time) map[string][]PricePoint {
	out := make(map[string][]PricePoint, len(tickers))
	for _, ticker := range tickers {
		if cached, ok := c.cached(ticker); ok {
			out[ticker] = cached
			continue
		}

		points, err := c.fetchCandles(ctx, ticker, start, end)
		if err != nil {
			slog.Warn("price history fetch failed", "ticker", ticker, "error", err)
			continue
		}
		c.store(ticker, points)
		out[ticker] = points
	}
	return out
}

func (c *Client) fetchCandles(ctx context.Context, ticker string, start, end time.Time) ([]PricePoint, error) {
	res, _, err := c.api.StockCandles(ctx).
		Symbol(ticker).
		Resolution("D").
		From(start.Unix()).
		To(end.Unix()).
		Execute()
	if err != nil {
		return nil, err
	}

	if res.S == nil || *res.S != "ok" || res.C == nil || res.T == nil {
		return []PricePoint{}, nil
	}

	closes := *res.C
	stamps := *res.T
	n := len(closes)
	if len(stamps) < n {
		n = len(stamps)
	}

	points := make([]PricePoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, PricePoint{
			Date:  time.Unix(stamps[i], 0).UTC(),
			Close: float64(closes[i]),
		})
	}
	return points, nil
}

func (c *Client) cached(ticker string) ([]PricePoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[ticker]
	if !ok || time.Since(entry.fetchedAt) > historyCacheTTL {
		return nil, false
	}
	return entry.points, true
}

func (c *Client) store(ticker string, points []PricePoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[ticker] = cacheEntry{points: points, fetchedAt: time.Now()}
}
