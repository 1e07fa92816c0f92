package query

import (
	"strings"
	"time"

	"github.com/hari2309s/recommend-a-book-sub000/internal/cache"
)

// Intent cache defaults.
const (
	DefaultIntentTTL      = time.Hour
	DefaultIntentCapacity = 1000
)

// Enhancer memoizes Parse behind a TTL cache. Classification is pure, so a
// cached value is always identical to a recomputed one; the cache only
// saves the regex work on hot queries.
type Enhancer struct {
	cache *cache.TTL[string, Enhanced]
}

// NewEnhancer creates an enhancer with its own intent cache.
func NewEnhancer(ttl time.Duration, capacity int, opts ...cache.Option[string, Enhanced]) *Enhancer {
	if ttl <= 0 {
		ttl = DefaultIntentTTL
	}
	if capacity <= 0 {
		capacity = DefaultIntentCapacity
	}
	return &Enhancer{cache: cache.NewTTL(ttl, capacity, opts...)}
}

// Enhance returns the enhanced form of the query, cached by its trimmed text.
func (e *Enhancer) Enhance(raw string) Enhanced {
	key := strings.TrimSpace(raw)
	if v, ok := e.cache.Get(key); ok {
		return v
	}
	v := Parse(raw)
	e.cache.Put(key, v)
	return v
}

// CacheLen reports the number of cached intents, for stats endpoints.
func (e *Enhancer) CacheLen() int { return e.cache.Len() }
