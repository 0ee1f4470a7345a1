package cache

import (
	"sync"
	"time"
)

// TTL constants for different data types
const (
	// Static data - icon lookups, only change when the icon set is replaced
	TTLStatic = 24 * time.Hour

	// Fast - device enumeration; a rescan should see a newly inserted disk
	TTLFast = 5 * time.Second
)

// Entry holds a cached value with expiration
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// IsExpired returns true if the entry has expired
func (e *Entry[V]) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache provides thread-safe TTL-based caching
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[V]
}

// New creates a new cache instance
func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]*Entry[V]),
	}
}

// Get retrieves a value from cache; ok is false if expired or not found
func (c *Cache[V]) Get(key string) (value V, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	if !found || entry.IsExpired() {
		return value, false
	}
	return entry.Value, true
}

// Set stores a value with the given TTL. Expired entries are dropped on
// every write.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range c.entries {
		if v.IsExpired() {
			delete(c.entries, k)
		}
	}
	c.entries[key] = &Entry[V]{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// SetStatic stores static data (very long TTL)
func (c *Cache[V]) SetStatic(key string, value V) {
	c.Set(key, value, TTLStatic)
}

// SetFast stores fast-refresh data
func (c *Cache[V]) SetFast(key string, value V) {
	c.Set(key, value, TTLFast)
}
