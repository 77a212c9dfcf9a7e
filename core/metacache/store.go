package metacache

import (
	"context"
	"sync"

	"github.com/dmitrymomot/staticserve/core/cache"
)

// Store persists cache entries. Implementations must be safe for concurrent use
// and must replace entries atomically: a concurrent Load observes either the old
// or the new entry, never a mix.
type Store[V any] interface {
	// Load returns the entry for key. A miss is reported as (nil, nil).
	Load(ctx context.Context, key string) (*Entry[V], error)
	// Save replaces the entry for key.
	Save(ctx context.Context, key string, entry *Entry[V]) error
	// Delete removes the entry for key, if any.
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an unbounded in-process store backed by sync.Map.
type MemoryStore[V any] struct {
	entries sync.Map // string -> *Entry[V]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{}
}

func (s *MemoryStore[V]) Load(_ context.Context, key string) (*Entry[V], error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return nil, nil
	}
	return v.(*Entry[V]), nil
}

func (s *MemoryStore[V]) Save(_ context.Context, key string, entry *Entry[V]) error {
	s.entries.Store(key, entry)
	return nil
}

func (s *MemoryStore[V]) Delete(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len counts stored entries. It walks the whole map.
func (s *MemoryStore[V]) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// LRUStore is a bounded in-process store. Lookups take an exclusive lock
// because they update recency.
type LRUStore[V any] struct {
	lru *cache.LRUCache[string, *Entry[V]]
}

// NewLRUStore creates a store holding at most maxEntries entries.
func NewLRUStore[V any](maxEntries int) *LRUStore[V] {
	return &LRUStore[V]{lru: cache.NewLRUCache[string, *Entry[V]](maxEntries)}
}

func (s *LRUStore[V]) Load(_ context.Context, key string) (*Entry[V], error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return e, nil
}

func (s *LRUStore[V]) Save(_ context.Context, key string, entry *Entry[V]) error {
	s.lru.Put(key, entry)
	return nil
}

func (s *LRUStore[V]) Delete(_ context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

// Len returns the number of stored entries.
func (s *LRUStore[V]) Len() int {
	return s.lru.Len()
}
