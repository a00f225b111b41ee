package client

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long cached lists stay fresh.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// ListCache is a small TTL cache for list responses. Callers create and
// share an instance explicitly; expired entries are evicted on read.
type ListCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewListCache creates a cache with the given TTL. A non-positive ttl
// falls back to DefaultCacheTTL.
func NewListCache(ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ListCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns a fresh entry for key. Expired entries are removed and
// reported as a miss.
func (lc *ListCache) Get(key string) (any, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	entry, ok := lc.entries[key]
	if !ok {
		return nil, false
	}
	if lc.now().Sub(entry.storedAt) > lc.ttl {
		delete(lc.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key, resetting its age.
func (lc *ListCache) Set(key string, value any) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.entries[key] = cacheEntry{value: value, storedAt: lc.now()}
}

// Invalidate removes the given keys, or everything when called with no
// arguments.
func (lc *ListCache) Invalidate(keys ...string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if len(keys) == 0 {
		lc.entries = make(map[string]cacheEntry)
		return
	}
	for _, key := range keys {
		delete(lc.entries, key)
	}
}
