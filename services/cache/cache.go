// Package cache provides a small in-memory memoizer with per-entry TTLs.
// It exists to avoid redundant upstream provider calls within a short
// window; there is no capacity bound, no LRU and no background sweeping.
// Expired entries are treated as absent and evicted lazily on read.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	storedAt  time.Time
	expiresIn time.Duration
}

// Cache is a process-wide key/value store with lazy expiry. Safe for
// concurrent use.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	now     func() time.Time
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// NewWithClock creates a cache with an injected clock, used by tests to
// drive expiry deterministically.
func NewWithClock[T any](now func() time.Time) *Cache[T] {
	c := New[T]()
	c.now = now
	return c
}

// Get returns the value stored under key, or false when no entry exists or
// the entry has outlived its TTL.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.storedAt) > e.expiresIn {
		// Logically deleted; evict so the map does not grow unbounded.
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores value under key for the given TTL, overwriting any existing
// entry and resetting its age.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{
		value:     value,
		storedAt:  c.now(),
		expiresIn: ttl,
	}
}

// Len reports the number of entries currently held, including entries that
// have expired but not yet been evicted.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
