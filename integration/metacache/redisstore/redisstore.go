// Package redisstore shares metadata cache entries between instances through Redis.
//
// Entries are JSON encoded under a key prefix. Use a distinct prefix per static
// server configuration: cached headers include the configured header policy.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/staticserve/core/metacache"
)

// DefaultPrefix namespaces cache keys in Redis.
const DefaultPrefix = "staticserve:meta:"

// Compile-time check that Store implements metacache.Store.
var _ metacache.Store[struct{}] = (*Store[struct{}])(nil)

// Store is a metacache.Store backed by Redis string keys.
type Store[V any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*options)

type options struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix sets the key prefix (default: DefaultPrefix).
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTTL expires entries after ttl. Zero keeps them until replaced or deleted.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// New creates a Redis backed store.
// Panics if client is nil.
func New[V any](client redis.UniversalClient, opts ...Option) *Store[V] {
	if client == nil {
		panic("redisstore.New: redis client is required")
	}

	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[V]{
		client: client,
		prefix: o.prefix,
		ttl:    o.ttl,
	}
}

func (s *Store[V]) Load(ctx context.Context, key string) (*metacache.Entry[V], error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var entry metacache.Entry[V]
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", metacache.ErrCorruptEntry, key, err)
	}
	return &entry, nil
}

func (s *Store[V]) Save(ctx context.Context, key string, entry *metacache.Entry[V]) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store[V]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
