package staticserve

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrymomot/staticserve/core/logger"
	"github.com/dmitrymomot/staticserve/core/metacache"
	"github.com/dmitrymomot/staticserve/core/static"
	"github.com/dmitrymomot/staticserve/integration/database/redis"
	"github.com/dmitrymomot/staticserve/integration/metacache/redisstore"
	"github.com/dmitrymomot/staticserve/integration/metacache/sqlitestore"
	"github.com/dmitrymomot/staticserve/integration/storage/s3"
)

func newResolver(ctx context.Context, cfg Config) (static.Resolver, error) {
	switch cfg.StorageBackend {
	case StorageLocal, "":
		info, err := os.Stat(cfg.Static.Root)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrDocumentRoot, cfg.Static.Root)
		}
		return static.Dir(cfg.Static.Root), nil
	case StorageS3:
		r, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageBackend, cfg.StorageBackend)
	}
}

// openStore creates the configured metadata store and registers its
// readiness check and closer.
func (a *App) openStore(ctx context.Context) error {
	switch a.config.CacheBackend {
	case CacheMemory, "":
		a.store = metacache.NewMemoryStore[static.CacheEntry]()
	case CacheLRU:
		if a.config.CacheMaxEntries <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidCacheSize, a.config.CacheMaxEntries)
		}
		a.store = metacache.NewLRUStore[static.CacheEntry](a.config.CacheMaxEntries)
	case CacheRedis:
		client, err := redis.Connect(ctx, a.config.Redis)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		a.checks = append(a.checks, redis.Healthcheck(client))
		a.store = redisstore.New[static.CacheEntry](client,
			redisstore.WithPrefix(redisstore.DefaultPrefix+a.config.AppName+":"),
			redisstore.WithTTL(a.config.CacheTTL),
		)
	case CacheSQLite:
		store, err := sqlitestore.Open[static.CacheEntry](ctx, a.config.SQLite.Path)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, store.Close)
		a.checks = append(a.checks, store.Ping)
		a.sqlite = store
		a.store = store
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheBackend, a.config.CacheBackend)
	}

	a.logger.Debug("metadata cache ready",
		logger.Component("app"),
		logger.Key("backend", a.config.CacheBackend),
	)
	return nil
}
