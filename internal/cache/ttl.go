// Package cache provides a small TTL cache used for memoizing query
// enhancement, search results, and explanations. Entries expire lazily on
// read; expired entries are only removed in bulk when an insert pushes the
// cache past its capacity threshold.
package cache

import (
	"sync"
	"time"
)

// Clock abstracts time for tests.
type Clock func() time.Time

// TTL is a concurrency-safe cache with per-cache time-to-live.
type TTL[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]entry[V]
	ttl      time.Duration
	capacity int
	now      Clock
}

type entry[V any] struct {
	value V
	at    time.Time
}

// Option configures a TTL cache.
type Option[K comparable, V any] func(*TTL[K, V])

// WithClock overrides the time source, for tests.
func WithClock[K comparable, V any](now Clock) Option[K, V] {
	return func(c *TTL[K, V]) { c.now = now }
}

// NewTTL creates a cache holding entries for ttl. When an insert grows the
// cache past capacity, all currently-expired entries are swept synchronously.
// The sweep removes only expired entries, so the cache can exceed capacity
// while every entry is still live.
func NewTTL[K comparable, V any](ttl time.Duration, capacity int, opts ...Option[K, V]) *TTL[K, V] {
	c := &TTL[K, V]{
		entries:  make(map[K]entry[V]),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key if present and unexpired. An expired
// entry reads as a miss but stays in the map until the next sweep.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put inserts or overwrites the value for key.
func (c *TTL[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, at: c.now()}
	if len(c.entries) > c.capacity {
		c.sweepLocked()
	}
}

// Sweep removes all expired entries.
func (c *TTL[K, V]) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
}

func (c *TTL[K, V]) sweepLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.at) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of entries currently held, expired or not.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
