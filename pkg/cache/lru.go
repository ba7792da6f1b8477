package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// Stats are cumulative counters of a cache.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// LRUCache is a thread-safe cache holding at most capacity entries. Adding an
// entry to a full cache evicts the least recently used one.
type LRUCache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List
	mu       sync.Mutex
	onEvict  func(key K, value V)

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewLRUCache panics unless capacity is positive.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	if capacity <= 0 {
		panic("LRU cache capacity must be positive")
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// SetEvictCallback registers fn to run for every entry leaving the cache,
// whether evicted, removed or cleared. fn runs with the cache lock held and
// must not call back into the cache.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the cached value and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry[K, V]).value, true
}

// Put stores value under key and returns the value it replaced, if any.
func (c *LRUCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*lruEntry[K, V])
		previous := entry.value
		entry.value = value
		return previous, true
	}

	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
	if c.order.Len() > c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.evictions.Add(1)
			c.removeElement(oldest)
		}
	}

	var zero V
	return zero, false
}

// Remove deletes key and returns the value it held.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.removeElement(elem)
	return elem.Value.(*lruEntry[K, V]).value, true
}

// RemoveFunc deletes every entry whose key satisfies match and returns how
// many were deleted.
func (c *LRUCache[K, V]) RemoveFunc(match func(key K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, elem := range c.items {
		if match(key) {
			c.removeElement(elem)
			removed++
		}
	}
	return removed
}

// Keys returns the cached keys from most to least recently used.
func (c *LRUCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*lruEntry[K, V]).key)
	}
	return keys
}

func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRUCache[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Clear drops every entry, running the evict callback for each.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for _, elem := range c.items {
			entry := elem.Value.(*lruEntry[K, V])
			c.onEvict(entry.key, entry.value)
		}
	}
	c.items = make(map[K]*list.Element)
	c.order.Init()
}

// Must be called with lock held.
func (c *LRUCache[K, V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	entry := elem.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)

	if c.onEvict != nil {
		c.onEvict(entry.key, entry.value)
	}
}
