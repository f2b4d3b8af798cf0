package match

import (
	"sync"
	"time"
)

type keywordHits struct {
	matchRatio    float64
	headlineRatio float64
}

type cacheKey struct {
	templateID string
	newsID     string
}

type cacheEntry struct {
	hits    keywordHits
	expires time.Time
}

// keywordCache memoises keyword hits per template and news item for a
// bounded time. Safe for concurrent use.
type keywordCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	puts    int
}

const pruneEvery = 256

func newKeywordCache(ttl time.Duration, now func() time.Time) *keywordCache {
	return &keywordCache{ttl: ttl, now: now, entries: make(map[cacheKey]cacheEntry)}
}

func (c *keywordCache) get(key cacheKey) (keywordHits, bool) {
	if c.ttl <= 0 || key.newsID == "" {
		return keywordHits{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return keywordHits{}, false
	}
	if !c.now().Before(entry.expires) {
		delete(c.entries, key)
		return keywordHits{}, false
	}
	return entry.hits, true
}

func (c *keywordCache) put(key cacheKey, hits keywordHits) {
	if c.ttl <= 0 || key.newsID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.entries[key] = cacheEntry{hits: hits, expires: now.Add(c.ttl)}
	c.puts++
	if c.puts%pruneEvery == 0 {
		for k, entry := range c.entries {
			if !now.Before(entry.expires) {
				delete(c.entries, k)
			}
		}
	}
}

func (c *keywordCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *keywordCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}
