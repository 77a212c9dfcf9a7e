// Package middleware provides net/http middleware for the static file server.
//
//   - RequestID assigns a request ID (UUID v4 by default), exposes it through
//     the request context and the X-Request-ID response header.
//   - Logging writes one structured access log record per request with status,
//     bytes written and duration captured by httpsnoop.
//
// # Usage
//
//	handler := middleware.Chain(staticServer,
//		middleware.RequestID(),
//		middleware.LoggingWithLogger(log),
//	)
//
// Both middlewares also plug into chi routers with r.Use.
//
// # Request IDs in Logs
//
// Register RequestIDExtractor with the logger so records written with a request
// context carry the ID:
//
//	log := logger.New(logger.WithContextExtractors(middleware.RequestIDExtractor))
//
// # Log Levels
//
// Responses with status 5xx are logged at error level, 4xx and slow requests at
// warning level, everything else (including 304) at LoggingConfig.LogLevel.
package middleware
