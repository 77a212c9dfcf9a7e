// Package logger provides structured logging built on Go's standard slog package.
//
// It offers a small factory with functional options, context-aware attribute
// extraction, and attribute helpers for the fields the static server logs.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/staticserve/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("staticserve"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("staticserve"))
//
//	log.Info("serving files",
//		logger.Component("static"),
//		logger.Path("/var/www"),
//	)
//
// # Context-Aware Logging
//
// Extractors pull request-scoped attributes out of the context passed to the
// *Context logging methods:
//
//	log := logger.New(
//		logger.WithProduction("staticserve"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := middleware.GetRequestID(ctx)
//			return logger.RequestID(id), ok
//		}),
//	)
//
//	log.InfoContext(r.Context(), "file served", logger.StatusCode(200))
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil errors and empty identifiers, so they
// can be passed unconditionally:
//
//	log.Error("stream interrupted",
//		logger.Error(err),
//		logger.Path(name),
//		logger.BytesOut(written),
//	)
package logger
