package aggregator

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"saasradar/internal/model"
)

func titles(items []model.NewsItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestDedupeMergesSuffixedTitles(t *testing.T) {
	items := []model.NewsItem{
		{Title: "OpenAI launches enterprise agent platform", URL: "https://wsj.com/a"},
		{Title: "OpenAI launches enterprise agent platform - Reuters", URL: "https://reuters.com/b"},
	}

	got := Dedupe(items)
	assert.Equal(t, 1, len(got))
	// First occurrence wins
	assert.Equal(t, "https://wsj.com/a", got[0].URL)
}

func TestDedupeKeepsDistinctStories(t *testing.T) {
	items := []model.NewsItem{
		{Title: "Salesforce cuts guidance on AI pressure"},
		{Title: "Anthropic raises new funding round"},
		{Title: "HubSpot ships agent marketplace"},
	}

	got := Dedupe(items)
	assert.Equal(t, 3, len(got))
}

func TestDedupeDropsEmptyTitles(t *testing.T) {
	items := []model.NewsItem{
		{Title: ""},
		{Title: "   "},
		{Title: "Real story"},
	}

	got := Dedupe(items)
	assert.Equal(t, []string{"Real story"}, titles(got))
}

func TestDedupeIsIdempotent(t *testing.T) {
	items := []model.NewsItem{
		{Title: "OpenAI launches enterprise agent platform"},
		{Title: "OpenAI Launches Enterprise Agent Platform - Bloomberg"},
		{Title: "Salesforce cuts guidance on AI pressure"},
		{Title: ""},
	}

	once := Dedupe(items)
	twice := Dedupe(once)
	assert.Equal(t, titles(once), titles(twice))
}

func TestDedupePreservesOrder(t *testing.T) {
	items := []model.NewsItem{
		{Title: "B story about databases"},
		{Title: "A story about chips"},
		{Title: "C story about agents"},
	}

	got := Dedupe(items)
	assert.Equal(t, []string{
		"B story about databases",
		"A story about chips",
		"C story about agents",
	}, titles(got))
}
