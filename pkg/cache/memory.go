package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrNotFound = errors.New("value not found in cache")

// Config configures cache behavior
type Config struct {
	TTL     time.Duration
	MaxSize int
}

// Stats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type Stats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// Memory is an in-memory TTL cache. The client uses it for slow-changing
// lookup lists (categories, cities, tags) that the UI requests on every
// page load.
type Memory[V any] struct {
	cache   map[string]*record[V]
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

type record[V any] struct {
	value    V
	cachedAt time.Time
}

// NewMemory creates a new in-memory cache
func NewMemory[V any](c Config) *Memory[V] {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &Memory[V]{
		cache:   make(map[string]*record[V]),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

// Get retrieves a value from cache
func (c *Memory[V]) Get(key string) (V, error) {
	var zero V

	c.mu.RLock()
	rec, exists := c.cache[key]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return zero, ErrNotFound
	}

	if time.Since(rec.cachedAt) > c.ttl {
		// expired
		atomic.AddInt64(&c.misses, 1)
		if err := c.Delete(key); err != nil {
			return zero, err
		}
		return zero, ErrNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return rec.value, nil
}

// Set stores a value in cache
func (c *Memory[V]) Set(key string, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.cache[key] = &record[V]{
		value:    value,
		cachedAt: time.Now(),
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

// Delete removes a value from cache
func (c *Memory[V]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.cache[key]; existed {
		delete(c.cache, key)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

// Clear removes all values from cache
func (c *Memory[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*record[V])
	return nil
}

// Len returns the number of cached values
func (c *Memory[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns cache statistics
func (c *Memory[V]) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
