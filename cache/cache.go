// Package cache provides memoization for parsed models keyed by source
// text. The server front end sees the same demonstration documents uploaded
// repeatedly; caching skips the re-parse. Models are treated as read-only
// after construction, so handing the same *model.Model to several readers is
// safe.
package cache

import (
	"crypto/sha256"
	"sync"

	"github.com/david-basis/archmodel/model"
)

// ModelCache caches parse results keyed by a hash of the source text.
type ModelCache struct {
	mu        sync.RWMutex
	cache     map[string]*model.Model
	order     []string // insertion order for FIFO eviction
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewModelCache creates a cache with the specified maximum size. When the
// cache is full, the oldest entry is evicted (FIFO). Set maxSize to 0 for an
// unbounded cache.
func NewModelCache(maxSize int) *ModelCache {
	return &ModelCache{
		cache:   make(map[string]*model.Model),
		maxSize: maxSize,
	}
}

// hashSource returns a deterministic key for the source text.
func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return string(sum[:])
}

// Get retrieves the cached model for the given source text, or nil.
func (c *ModelCache) Get(source string) *model.Model {
	key := hashSource(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.cache[key]
	if !ok {
		c.misses++
		return nil
	}
	c.hits++
	return m
}

// Put stores a parse result for the given source text.
func (c *ModelCache) Put(source string, m *model.Model) {
	key := hashSource(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; exists {
		c.cache[key] = m
		return
	}

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
		c.evictions++
	}

	c.cache[key] = m
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *ModelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns hit, miss and eviction counters.
func (c *ModelCache) Stats() (hits, misses, evictions int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, c.evictions
}

// Clear removes all entries and resets the counters.
func (c *ModelCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*model.Model)
	c.order = nil
	c.hits, c.misses, c.evictions = 0, 0, 0
}
