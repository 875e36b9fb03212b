package grid

import (
	"container/list"
	"sync"
	"time"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// Cache keeps recently generated grids with LRU eviction.
//
// Map views regenerate the grid on every pan or zoom. With global alignment
// the requested bounds are often identical between frames, so repeated specs
// are served from memory.
//
// Collections returned by Get are shared between callers and must be treated
// as read-only.
//
// Example:
//
//	cache := grid.NewCache(64)
//	fc, hit, err := cache.Get(spec)
type Cache struct {
	maxEntries int
	grids      map[Spec]*cacheEntry
	lru        *list.List // most recent at front
	hits       int
	misses     int
	mu         sync.Mutex
}

type cacheEntry struct {
	spec         Spec
	grid         geo.FeatureCollection
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// NewCache creates a cache holding at most maxEntries grids.
// Zero or a negative value means no limit.
func NewCache(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		grids:      make(map[Spec]*cacheEntry),
		lru:        list.New(),
	}
}

// Get returns the grid for spec, generating and caching it on a miss.
// hit reports whether the grid came from the cache. Invalid specs are not
// cached and return the Generate error.
func (c *Cache) Get(spec Spec) (fc geo.FeatureCollection, hit bool, err error) {
	key := spec.normalized()

	c.mu.Lock()
	if entry, ok := c.grids[key]; ok {
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.hits++
		c.mu.Unlock()
		return entry.grid, true, nil
	}
	c.misses++
	c.mu.Unlock()

	// Generate outside the lock; concurrent misses for the same spec both
	// compute and the later add wins.
	fc, err = Generate(key)
	if err != nil {
		return geo.FeatureCollection{}, false, err
	}
	c.add(key, fc)
	return fc, false, nil
}

func (c *Cache) add(key Spec, fc geo.FeatureCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.grids[key]; ok {
		entry.grid = fc
		entry.lastAccessed = time.Now()
		c.lru.MoveToFront(entry.element)
		return
	}

	if c.maxEntries > 0 {
		for c.lru.Len() >= c.maxEntries {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{
		spec:         key,
		grid:         fc,
		lastAccessed: time.Now(),
		accessCount:  1,
	}
	entry.element = c.lru.PushFront(entry)
	c.grids[key] = entry
}

// evictLRU removes the least recently used grid.
// Must be called with c.mu locked.
func (c *Cache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.grids, entry.spec)
}

// Remove drops the grid for spec, if cached.
func (c *Cache) Remove(spec Spec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := spec.normalized()
	if entry, ok := c.grids[key]; ok {
		c.lru.Remove(entry.element)
		delete(c.grids, key)
	}
}

// Clear removes all grids and resets the hit and miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.grids = make(map[Spec]*cacheEntry)
	c.lru.Init()
	c.hits, c.misses = 0, 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := 0
	for _, entry := range c.grids {
		lines += entry.grid.Len()
	}

	return CacheStats{
		Entries:    len(c.grids),
		MaxEntries: c.maxEntries,
		Lines:      lines,
		Hits:       c.hits,
		Misses:     c.misses,
	}
}

// CacheStats holds cache counters.
type CacheStats struct {
	Entries    int // Grids currently cached
	MaxEntries int // Capacity, 0 when unbounded
	Lines      int // Total line features held
	Hits       int
	Misses     int
}
