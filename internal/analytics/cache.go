package analytics

import (
	"sync"
	"time"
)

type cacheEntry struct {
	report    Report
	expiresAt time.Time
}

// Cache is a short-TTL read-through cache, one whole report per kind.
// Entries are overwritten wholesale; the only invalidation is expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[Kind]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[Kind]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached report for kind if a live entry exists.
func (c *Cache) Get(kind Kind) (Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[kind]
	if !ok || c.now().After(entry.expiresAt) {
		return Report{}, false
	}
	return entry.report, true
}

// Put stores the report for kind, replacing any prior entry regardless of
// its expiry state.
func (c *Cache) Put(kind Kind, report Report, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[kind] = cacheEntry{
		report:    report,
		expiresAt: c.now().Add(ttl),
	}
}
