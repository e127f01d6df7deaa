package feeds

import (
	"sync"
	"time"

	"saasradar/internal/model"
)

// ttlCache bounds upstream call volume per adapter. Keys are the fetch
// parameters (feed URL, query), values expire after the adapter's TTL.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	items     []model.NewsItem
	fetchedAt time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *ttlCache) get(key string) ([]model.NewsItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.items, true
}

func (c *ttlCache) set(key string, items []model.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{items: items, fetchedAt: time.Now()}
}
