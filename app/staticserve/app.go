package staticserve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/staticserve/core/config"
	"github.com/dmitrymomot/staticserve/core/logger"
	"github.com/dmitrymomot/staticserve/core/metacache"
	"github.com/dmitrymomot/staticserve/core/server"
	"github.com/dmitrymomot/staticserve/core/static"
	"github.com/dmitrymomot/staticserve/integration/metacache/sqlitestore"
	"github.com/dmitrymomot/staticserve/middleware"
)

// App wires the static file server to its storage, metadata cache and HTTP server.
type App struct {
	config     Config
	configSet  bool
	logger     *slog.Logger
	resolver   static.Resolver
	store      metacache.Store[static.CacheEntry]
	cache      *metacache.Cache[static.CacheEntry]
	static     *static.Server
	staticOpts []static.Option
	server     *server.Server
	router     http.Handler

	sqlite  *sqlitestore.Store[static.CacheEntry]
	checks  []func(context.Context) error
	closers []func() error
}

type AppOption func(*App) error

// NewApp builds the application. Configuration is read from the environment
// unless WithConfig is given. Backends not injected through options are
// created from the configuration.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if !app.configSet {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		l, err := newLogger(app.config)
		if err != nil {
			return nil, err
		}
		app.logger = l
	}

	if err := app.setup(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	return app, nil
}

func (a *App) setup(ctx context.Context) error {
	if a.resolver == nil {
		r, err := newResolver(ctx, a.config)
		if err != nil {
			return err
		}
		a.resolver = r
	}

	if a.config.Static.CacheEnabled {
		if a.store == nil {
			if err := a.openStore(ctx); err != nil {
				return err
			}
		}
		a.cache = metacache.New(a.store, metacache.WithLogger[static.CacheEntry](a.logger))
	}

	staticCfg := a.config.Static
	staticCfg.CacheEnabled = false // the cache built above replaces the default one
	staticOpts := []static.Option{static.WithLogger(a.logger)}
	if a.cache != nil {
		staticOpts = append(staticOpts, static.WithMetadataCache(a.cache))
	}
	a.static = static.NewFromConfig(staticCfg, a.resolver, append(staticOpts, a.staticOpts...)...)

	if a.server == nil {
		s, err := server.NewFromConfig(a.config.Server, server.WithLogger(a.logger))
		if err != nil {
			return err
		}
		a.server = s
	}

	a.router = a.routes()
	return nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Stats returns metadata cache statistics. Zero when caching is disabled.
func (a *App) Stats() metacache.Stats {
	if a.cache == nil {
		return metacache.Stats{}
	}
	return a.cache.Stats()
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully and
// releases backend connections.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.server.Run(ctx, a.router))

	if a.sqlite != nil && a.config.SQLite.MaxAge > 0 && a.config.SQLite.PruneInterval > 0 {
		g.Go(func() error {
			a.prune(ctx, a.config.SQLite.PruneInterval, a.config.SQLite.MaxAge)
			return nil
		})
	}

	err := g.Wait()

	stats := a.Stats()
	a.logger.Info("metadata cache stats",
		logger.Component("app"),
		slog.Uint64("hits", stats.Hits),
		slog.Uint64("misses", stats.Misses),
		slog.Uint64("refreshes", stats.Refreshes),
		slog.Uint64("errors", stats.Errors),
	)

	return errors.Join(err, a.Close())
}

// Close releases backend connections. Safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) prune(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := a.sqlite.Prune(ctx, now.Add(-maxAge))
			if err != nil {
				if ctx.Err() == nil {
					a.logger.Warn("metadata cache prune failed", logger.Component("app"), logger.Error(err))
				}
				continue
			}
			if n > 0 {
				a.logger.Debug("metadata cache pruned", logger.Component("app"), slog.Int64("removed", n))
			}
		}
	}
}

func newLogger(cfg Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithAttr(slog.String("service", cfg.AppName), slog.String("env", cfg.Env)),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	}
	if cfg.LogFormat == "json" {
		opts = append(opts, logger.WithJSONFormatter())
	}

	return logger.New(opts...), nil
}

// WithConfig replaces the environment configuration.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		app.configSet = true
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

func WithResolver(resolver static.Resolver) AppOption {
	return func(app *App) error {
		if resolver == nil {
			return errors.New("resolver cannot be nil")
		}
		app.resolver = resolver
		return nil
	}
}

func WithMetadataStore(store metacache.Store[static.CacheEntry]) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("metadata store cannot be nil")
		}
		app.store = store
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

// WithStaticOptions appends options applied after the configuration, e.g. a custom completion.
func WithStaticOptions(opts ...static.Option) AppOption {
	return func(app *App) error {
		app.staticOpts = append(app.staticOpts, opts...)
		return nil
	}
}
