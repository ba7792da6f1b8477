// Package cache provides bounded, thread-safe in-memory caches for compiled
// artifacts such as regular expressions and validators.
//
// LRUCache is a generic least-recently-used cache with an optional eviction
// callback and hit, miss and eviction counters. Loading wraps it for string
// keys and fills misses through a load function, collapsing concurrent loads
// of the same key with golang.org/x/sync/singleflight.
//
// # Usage
//
//	patterns := cache.NewLRUCache[string, *regexp.Regexp](512)
//	patterns.Put(expr, re)
//	re, ok := patterns.Get(expr)
//
//	validators := cache.NewLoading[*validator.Validator](128)
//	v, err := validators.Get(name+"@"+digest, func() (*validator.Validator, error) {
//		return rs.Compile()
//	})
//
//	// Drop every compiled version of one rule set.
//	validators.RemoveFunc(func(key string) bool { return strings.HasPrefix(key, name+"@") })
//
// # Eviction
//
// Get and Put mark an entry as recently used. When Put grows the cache past
// its capacity the least recently used entry is evicted and the eviction
// callback, if any, is called with it. Failed loads are never cached.
package cache
