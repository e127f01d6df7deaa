package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"saasradar/pkg/stocks"
)

// Tracked public SaaS names shown on the dashboard chart.
var defaultTickers = []string{"CRM", "NOW", "HUBS", "TEAM", "MNDY", "VEEV"}

const (
	defaultHistoryDays = 90
	maxHistoryDays     = 365
)

type PriceHistoryProvider interface {
	GetHistory(ctx context.Context, tickers []string, start, end time.Time) map[string][]stocks.PricePoint
}

type StockHandler struct {
	provider PriceHistoryProvider
}

func NewStockHandler(provider PriceHistoryProvider) *StockHandler {
	return &StockHandler{provider: provider}
}

func (h *StockHandler) GetHistory(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stock history is not configured"})
		return
	}

	tickers := defaultTickers
	if raw := c.Query("tickers"); raw != "" {
		tickers = nil
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToUpper(strings.TrimSpace(t))
			if t != "" {
				tickers = append(tickers, t)
			}
		}
	}
	if len(tickers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No tickers requested"})
		return
	}

	days := getQueryInt("days", defaultHistoryDays, c)
	if days < 1 || days > maxHistoryDays {
		days = defaultHistoryDays
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	series := h.provider.GetHistory(c.Request.Context(), tickers, start, end)

	res := StockHistoryResponse{
		Series: make(map[string][]PricePointResponse, len(series)),
		From:   start.Format("2006-01-02"),
		To:     end.Format("2006-01-02"),
	}
	for ticker, points := range series {
		out := make([]PricePointResponse, 0, len(points))
		for _, p := range points {
			out = append(out, PricePointResponse{Date: p.Date.Format("2006-01-02"), Close: p.Close})
		}
		res.Series[ticker] = out
	}

	c.JSON(http.StatusOK, res)
}
