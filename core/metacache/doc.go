// Package metacache memoizes per-file computations (validators, synthesized
// headers) keyed by resolved path.
//
// An entry remembers the Snapshot (size and modification time) it was computed
// from. Staleness is checked on every read: when the live file no longer matches
// the snapshot the value is recomputed and the entry is replaced as a whole.
// Entries are never mutated in place and there is no background invalidation.
//
// # Stores
//
// Cache delegates storage to a Store:
//
//   - MemoryStore keeps immutable entries in a sync.Map; concurrent readers never block each other.
//   - LRUStore bounds the number of entries using core/cache.
//   - integration/metacache/redisstore shares entries between replicas.
//   - integration/metacache/sqlitestore persists entries across restarts.
//
// # Usage
//
//	c := metacache.New[Meta](metacache.NewMemoryStore[Meta]())
//
//	meta, err := c.GetOrCompute(ctx, path, metacache.Snapshot{Size: size, ModTime: mtime},
//		func() (Meta, error) { return computeMeta(path) })
//
// Store failures never fail a lookup: they are logged, counted in Stats and the
// computed value is returned uncached.
package metacache
