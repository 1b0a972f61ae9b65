// Package fixedcache provides a fixed-capacity map with strict FIFO eviction:
// when a new key would exceed capacity, the oldest key by insertion order is
// evicted, regardless of access pattern. This is not an LRU.
package fixedcache

import "sync"

// Cache holds up to a fixed number of entries. Safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
	keys    []K
	used    []bool
	next    int
}

// New returns a cache holding at most size entries. Panics when size < 1;
// callers wanting the feature off should not construct a cache at all.
func New[K comparable, V any](size int) *Cache[K, V] {
	if size < 1 {
		panic("fixedcache: size must be at least 1")
	}
	return &Cache[K, V]{
		entries: make(map[K]V, size),
		keys:    make([]K, size),
		used:    make([]bool, size),
	}
}

// Add stores value under key. An existing key is overwritten in place without
// consuming a slot; a new key evicts the oldest entry when the cache is full.
func (c *Cache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}
	if c.used[c.next] {
		delete(c.entries, c.keys[c.next])
	}
	c.keys[c.next] = key
	c.used[c.next] = true
	c.next = (c.next + 1) % len(c.keys)
	c.entries[key] = value
}

// Get returns the value stored under key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Contains reports whether key is present.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
