package staticserve

import (
	"time"

	"github.com/dmitrymomot/staticserve/core/server"
	"github.com/dmitrymomot/staticserve/core/static"
	"github.com/dmitrymomot/staticserve/integration/database/redis"
	"github.com/dmitrymomot/staticserve/integration/metacache/sqlitestore"
	"github.com/dmitrymomot/staticserve/integration/storage/s3"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Metadata cache backends.
const (
	CacheMemory = "memory"
	CacheLRU    = "lru"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// Config is the complete application configuration, loaded from the environment.
type Config struct {
	Server server.Config
	Static static.Config
	Redis  redis.Config
	S3     s3.Config
	SQLite sqlitestore.Config

	AppName   string `env:"APP_NAME" envDefault:"staticserve"`
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text|json

	StorageBackend  string        `env:"STORAGE_BACKEND" envDefault:"local"`  // local|s3
	CacheBackend    string        `env:"CACHE_BACKEND" envDefault:"memory"`   // memory|lru|redis|sqlite
	CacheMaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"10000"` // lru only
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"24h"`           // redis only

	HealthPath   string `env:"HEALTH_PATH" envDefault:"/healthz"`
	LivenessPath string `env:"LIVENESS_PATH" envDefault:"/livez"`
}

// DefaultConfig returns a Config serving ./public with the in-memory cache.
func DefaultConfig() Config {
	return Config{
		Server:          server.DefaultConfig(),
		Static:          static.DefaultConfig(),
		AppName:         "staticserve",
		Env:             "development",
		LogLevel:        "info",
		LogFormat:       "text",
		StorageBackend:  StorageLocal,
		CacheBackend:    CacheMemory,
		CacheMaxEntries: 10000,
		CacheTTL:        24 * time.Hour,
		HealthPath:      "/healthz",
		LivenessPath:    "/livez",
	}
}
