package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"saasradar/internal/aggregator"
	"saasradar/internal/model"
)

type NewsProvider interface {
	News(ctx context.Context, q aggregator.Query) []model.NewsItem
	Fundraising(ctx context.Context, limit int) []model.NewsItem
	SearchCompany(ctx context.Context, companyName string, limit int) []model.NewsItem
}

type NewsHandler struct {
	provider NewsProvider
}

func NewNewsHandler(provider NewsProvider) *NewsHandler {
	return &NewsHandler{provider: provider}
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	q := aggregator.Query{
		Category:    c.Query("category"),
		Source:      c.Query("source"),
		ContentType: c.Query("content_type"),
		Sort:        c.Query("sort"),
		Limit:       limit,
		Offset:      offset,
	}

	items := h.provider.News(c.Request.Context(), q)

	c.JSON(http.StatusOK, NewsFeedResponse{
		Items:  toNewsResponses(items),
		Total:  len(items),
		Limit:  limit,
		Offset: offset,
	})
}

func (h *NewsHandler) GetFundraising(c *gin.Context) {
	limit := getQueryLimit(c)
	items := h.provider.Fundraising(c.Request.Context(), limit)

	c.JSON(http.StatusOK, NewsFeedResponse{
		Items: toNewsResponses(items),
		Total: len(items),
		Limit: limit,
	})
}

func (h *NewsHandler) SearchCompany(c *gin.Context) {
	company := strings.TrimSpace(c.Query("company"))
	if company == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company query parameter is required"})
		return
	}

	limit := getQueryLimit(c)
	items := h.provider.SearchCompany(c.Request.Context(), company, limit)

	c.JSON(http.StatusOK, NewsFeedResponse{
		Items: toNewsResponses(items),
		Total: len(items),
		Limit: limit,
	})
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	raw := c.Query(name)

	if raw == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return defaultValue
	}

	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}

func toNewsResponses(items []model.NewsItem) []NewsItemResponse {
	res := make([]NewsItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, NewsItemResponse{
			Title:       item.Title,
			URL:         item.URL,
			Source:      item.Source,
			FeedName:    item.FeedName,
			Summary:     item.Summary,
			ImageURL:    item.ImageURL,
			PublishedAt: item.PublishedAt.Format(time.RFC3339),
			Engagement:  item.Engagement,
			Category:    item.Category,
			ContentType: item.ContentType,
			Score:       item.Score,
			AISummary:   item.AISummary,
			ZoneTag:     item.ZoneTag,
		})
	}
	return res
}
