// Package server wraps http.Server with graceful shutdown and production defaults.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithShutdownTimeout(30*time.Second),
//		server.WithLogger(log),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Run returns a function suitable for errgroup.Group.Go: it starts the server,
// waits for ctx to be cancelled and then shuts down gracefully, giving
// in-flight requests up to the shutdown timeout to finish.
//
// # Configuration
//
// NewFromConfig builds a server from environment-driven Config:
//
//	SERVER_ADDR                 listen address (default ":8080")
//	SERVER_READ_TIMEOUT         default 15s
//	SERVER_READ_HEADER_TIMEOUT  default 5s
//	SERVER_WRITE_TIMEOUT        default 0 (unlimited, large files stream freely)
//	SERVER_IDLE_TIMEOUT         default 60s
//	SERVER_SHUTDOWN_TIMEOUT     default 30s
//	SERVER_MAX_HEADER_BYTES     default 1MB
//	SERVER_TLS_CERT_FILE        optional, enables HTTPS together with the key file
//	SERVER_TLS_KEY_FILE
//
// # TLS
//
// WithTLS accepts any *tls.Config; DefaultTLSConfig follows Mozilla's
// intermediate profile and is used for certificates loaded from files.
//
// # Listening Address
//
// Addr reports the bound address once the server is started, which is handy
// with ":0" in tests.
package server
