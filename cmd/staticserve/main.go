// Command staticserve serves a document root over HTTP with conditional caching.
//
// Configuration is read from the environment (and a .env file when present);
// see app/staticserve.Config for the available variables.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/staticserve/app/staticserve"
	"github.com/dmitrymomot/staticserve/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := staticserve.NewApp(ctx)
	if err != nil {
		slog.Error("failed to initialize application", logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("application stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
