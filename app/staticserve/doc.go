// Package staticserve assembles the static file server binary: configuration,
// storage resolver, metadata cache backend, router and HTTP server lifecycle.
//
// Backends are selected through Config:
//
//	STORAGE_BACKEND=local|s3
//	CACHE_BACKEND=memory|lru|redis|sqlite
//
// Usage:
//
//	app, err := staticserve.NewApp(ctx)
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
//
// Components can be injected for tests or embedding:
//
//	app, err := staticserve.NewApp(ctx,
//		staticserve.WithConfig(cfg),
//		staticserve.WithResolver(static.FS(assets)),
//		staticserve.WithStaticOptions(static.WithCompletion(notFoundPage)),
//	)
package staticserve
