// Package sqlitestore persists metadata cache entries in SQLite so validators
// survive restarts. It uses the pure Go driver github.com/glebarez/go-sqlite.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/dmitrymomot/staticserve/core/metacache"
)

// Compile-time check that Store implements metacache.Store.
var _ metacache.Store[struct{}] = (*Store[struct{}])(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS metacache (
		key       TEXT PRIMARY KEY,
		stored_at INTEGER NOT NULL,
		entry     BLOB NOT NULL
	)`,
	"CREATE INDEX IF NOT EXISTS metacache_stored_at_idx ON metacache (stored_at)",
	"PRAGMA journal_mode=WAL",
}

// Config holds SQLite store settings.
type Config struct {
	Path string `env:"CACHE_SQLITE_PATH" envDefault:"./metacache.db"`

	// Entries not refreshed within MaxAge are pruned every PruneInterval. Zero disables pruning.
	MaxAge        time.Duration `env:"CACHE_SQLITE_MAX_AGE" envDefault:"168h"`
	PruneInterval time.Duration `env:"CACHE_SQLITE_PRUNE_INTERVAL" envDefault:"1h"`
}

// Store is a metacache.Store backed by a SQLite table.
// Entries are stored as JSON; writes are serialized.
type Store[V any] struct {
	db         *sql.DB
	writeMutex sync.Mutex
}

// Open opens (or creates) the database at path and prepares the schema.
func Open[V any](ctx context.Context, path string) (*Store[V], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare sqlite %s: %w", path, err)
		}
	}

	return &Store[V]{db: db}, nil
}

func (s *Store[V]) Load(ctx context.Context, key string) (*metacache.Entry[V], error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT entry FROM metacache WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
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

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO metacache (key, stored_at, entry) VALUES (?, ?, ?)",
		key, entry.StoredAt.Unix(), raw)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store[V]) Delete(ctx context.Context, key string) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM metacache WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Prune removes entries stored before the given time and returns how many were dropped.
func (s *Store[V]) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM metacache WHERE stored_at < ?", before.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of stored entries.
func (s *Store[V]) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM metacache").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Ping checks the database connection.
func (s *Store[V]) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store[V]) Close() error {
	return s.db.Close()
}
