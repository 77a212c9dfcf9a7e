// Package cache provides a thread-safe, generic LRU cache.
//
// LRUCache keeps at most capacity entries and evicts the least recently used
// one when a new key is added to a full cache. It backs the bounded store of
// the metadata cache (see core/metacache), but has no knowledge of files or
// HTTP and can be used on its own.
//
// # Usage
//
//	import "github.com/dmitrymomot/staticserve/core/cache"
//
//	c := cache.NewLRUCache[string, int](100)
//
//	c.Put("a", 1)
//	if v, found := c.Get("a"); found {
//		fmt.Println(v)
//	}
//
//	if v, found := c.Remove("a"); found {
//		fmt.Println("removed", v)
//	}
//
// # Eviction Callbacks
//
// Register a callback to observe entries pushed out by capacity pressure:
//
//	c.SetEvictCallback(func(key string, value int) {
//		log.Printf("evicted %s", key)
//	})
//
// The callback runs outside the cache lock, so it may call back into the cache.
// It is not invoked for Remove or Clear.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Get updates recency and therefore
// takes the write lock; Len, Keys and Peek only take the read lock.
//
// # Performance Characteristics
//
//   - Get: O(1)
//   - Put: O(1)
//   - Remove: O(1)
//   - Memory: O(capacity)
package cache
