package cache

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value  string
	stored time.Time
}

// InMemoryCache is a thread-safe map cache with optional expiry.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryCache creates a cache whose entries expire after ttlSeconds.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryCache) expired(e cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.stored) > c.ttl
}

// Get returns the value for key unless it is missing or expired.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if c.expired(e, c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous value.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, stored: c.now()}
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Entries returns a copy of all live entries.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	out := make(map[string]string, len(c.entries))
	for key, e := range c.entries {
		if c.expired(e, now) {
			continue
		}
		out[key] = e.value
	}
	return out
}

var (
	_ TranslationCache = (*InMemoryCache)(nil)
	_ Lister           = (*InMemoryCache)(nil)
)
