package cache

import (
	"golang.org/x/sync/singleflight"
)

// Loading is a string-keyed LRU cache that fills misses with a load
// function. Concurrent misses for one key share a single load. Failed loads
// are not cached.
type Loading[V any] struct {
	lru   *LRUCache[string, V]
	group singleflight.Group
}

// NewLoading panics unless capacity is positive.
func NewLoading[V any](capacity int) *Loading[V] {
	return &Loading[V]{lru: NewLRUCache[string, V](capacity)}
}

// Get returns the cached value for key, calling load on a miss.
func (c *Loading[V]) Get(key string, load func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled the entry while this one waited.
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.lru.Put(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Peek returns the cached value without loading.
func (c *Loading[V]) Peek(key string) (V, bool) {
	return c.lru.Get(key)
}

func (c *Loading[V]) Remove(key string) {
	c.lru.Remove(key)
}

// RemoveFunc deletes the entries whose key satisfies match.
func (c *Loading[V]) RemoveFunc(match func(key string) bool) int {
	return c.lru.RemoveFunc(match)
}

func (c *Loading[V]) Len() int { return c.lru.Len() }

func (c *Loading[V]) Stats() Stats { return c.lru.Stats() }
