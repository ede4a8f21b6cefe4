package migrate

import (
	"sync"
	"time"
)

// SessionCache holds short-lived per-run state, chiefly the conflict list a
// migration session accumulates across pages. Entries expire after their TTL.
type SessionCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Clear(key string)
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// MemoryCache is an in-process [SessionCache]. Expired entries are dropped
// lazily on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewMemoryCache creates an empty [MemoryCache].
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores a value. A zero ttl means the entry never expires.
func (c *MemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = entry
}

func (c *MemoryCache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
