package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"saasradar/internal/aggregator"
	"saasradar/internal/model"
)

type fakeNewsProvider struct {
	items     []model.NewsItem
	lastQuery aggregator.Query
	searched  string
}

func (f *fakeNewsProvider) News(ctx context.Context, q aggregator.Query) []model.NewsItem {
	f.lastQuery = q
	return f.items
}

func (f *fakeNewsProvider) Fundraising(ctx context.Context, limit int) []model.NewsItem {
	return f.items
}

func (f *fakeNewsProvider) SearchCompany(ctx context.Context, companyName string, limit int) []model.NewsItem {
	f.searched = companyName
	return f.items
}

func newNewsRouter(provider NewsProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewNewsHandler(provider)
	r.GET("/api/news", h.GetNews)
	r.GET("/api/news/fundraising", h.GetFundraising)
	r.GET("/api/news/search", h.SearchCompany)
	r.GET("/health", h.GetHealth)
	return r
}

func TestGetNews_ReturnsItems(t *testing.T) {
	provider := &fakeNewsProvider{items: []model.NewsItem{
		{Title: "Agents eat SaaS", Source: model.SourceRSS, Score: 80, PublishedAt: time.Now()},
	}}
	r := newNewsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/news?category=ai_disruption&sort=recent&limit=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res NewsFeedResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res.Items))
	assert.Equal(t, "Agents eat SaaS", res.Items[0].Title)

	assert.Equal(t, model.CategoryAIDisruption, provider.lastQuery.Category)
	assert.Equal(t, "recent", provider.lastQuery.Sort)
	assert.Equal(t, 5, provider.lastQuery.Limit)
}

func TestGetNews_DefaultLimit(t *testing.T) {
	provider := &fakeNewsProvider{}
	r := newNewsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/news", nil)
	r.ServeHTTP(w, req)

	var res NewsFeedResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 20, res.Limit)
	assert.Equal(t, 0, res.Offset)
}

func TestSearchCompany_RequiresCompany(t *testing.T) {
	r := newNewsRouter(&fakeNewsProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/news/search", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchCompany_PassesName(t *testing.T) {
	provider := &fakeNewsProvider{}
	r := newNewsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/news/search?company=Veeva", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Veeva", provider.searched)
}

func TestGetHealth(t *testing.T) {
	r := newNewsRouter(&fakeNewsProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
