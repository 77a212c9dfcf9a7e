package static

import "github.com/dmitrymomot/staticserve/core/metacache"

// Config holds static server configuration with environment variable support.
type Config struct {
	// Document root for the local filesystem resolver.
	Root string `env:"STATIC_ROOT" envDefault:"./public"`

	// File served for directory requests.
	IndexFile string `env:"STATIC_INDEX_FILE" envDefault:"index.html"`

	// Server header override. Empty means DefaultServerIdentity.
	ServerIdentity string `env:"STATIC_SERVER_NAME"`

	// In-process metadata cache.
	CacheEnabled bool `env:"STATIC_CACHE_ENABLED" envDefault:"true"`

	// Response headers
	CacheControl string            `env:"STATIC_CACHE_CONTROL"`
	Headers      map[string]string `env:"STATIC_HEADERS"` // name:value,name:value

	ContentHashETags bool   `env:"STATIC_CONTENT_HASH_ETAGS" envDefault:"false"`
	StripPrefix      string `env:"STATIC_STRIP_PREFIX"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Root:         "./public",
		IndexFile:    DefaultIndexFile,
		CacheEnabled: true,
	}
}

// NewFromConfig creates a Server from configuration.
// A nil resolver serves cfg.Root from the local filesystem (and panics if it is missing).
// Additional options can override config values.
func NewFromConfig(cfg Config, resolver Resolver, opts ...Option) *Server {
	if resolver == nil {
		resolver = Dir(cfg.Root)
	}

	configOpts := []Option{
		WithIndexFile(cfg.IndexFile),
		WithServerIdentity(cfg.ServerIdentity),
		WithCacheControl(cfg.CacheControl),
		WithStripPrefix(cfg.StripPrefix),
	}

	for name, value := range cfg.Headers {
		configOpts = append(configOpts, WithHeader(name, value))
	}

	if cfg.CacheEnabled {
		configOpts = append(configOpts, WithMetadataCache(metacache.New[CacheEntry](nil)))
	}

	if cfg.ContentHashETags {
		configOpts = append(configOpts, WithContentHashETags())
	}

	// Append user-provided options to override config if needed
	configOpts = append(configOpts, opts...)

	return New(resolver, configOpts...)
}
