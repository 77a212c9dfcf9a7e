package metacache

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/staticserve/core/logger"
)

// Cache memoizes values per key and invalidates them when the file snapshot drifts.
type Cache[V any] struct {
	store  Store[V]
	logger *slog.Logger
	now    func() time.Time
	stats  counters
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithLogger sets the logger used to report store failures.
func WithLogger[V any](l *slog.Logger) Option[V] {
	return func(c *Cache[V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for Entry.StoredAt.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache on top of store. A nil store defaults to a MemoryStore.
func New[V any](store Store[V], opts ...Option[V]) *Cache[V] {
	if store == nil {
		store = NewMemoryStore[V]()
	}
	c := &Cache[V]{
		store:  store,
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached value for key when its snapshot matches snap.
// Otherwise compute is called and the result replaces the stored entry.
// Errors from compute are returned as is and nothing is stored.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, snap Snapshot, compute func() (V, error)) (V, error) {
	entry, err := c.store.Load(ctx, key)
	if err != nil {
		c.stats.errors.Add(1)
		c.logger.WarnContext(ctx, "metadata cache load failed",
			logger.Component("metacache"), logger.Path(key), logger.Error(err))
		entry = nil
	}

	switch {
	case entry == nil:
		c.stats.misses.Add(1)
	case entry.Snapshot.Matches(snap):
		c.stats.hits.Add(1)
		return entry.Value, nil
	default:
		c.stats.refreshes.Add(1)
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	fresh := &Entry[V]{Snapshot: snap, Value: value, StoredAt: c.now()}
	if err := c.store.Save(ctx, key, fresh); err != nil {
		c.stats.errors.Add(1)
		c.logger.WarnContext(ctx, "metadata cache save failed",
			logger.Component("metacache"), logger.Path(key), logger.Error(err))
	}
	return value, nil
}

// Invalidate drops the entry for key.
func (c *Cache[V]) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	return c.stats.snapshot()
}
