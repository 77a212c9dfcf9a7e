package staticserve

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/staticserve/core/health"
	"github.com/dmitrymomot/staticserve/middleware"
)

func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: a.logger,
		Skip:   a.isProbe,
	}))
	r.Use(chimw.Recoverer)

	if a.config.HealthPath != "" {
		ready := health.Readiness(a.logger, a.checks...)
		r.Get(a.config.HealthPath, ready)
		r.Head(a.config.HealthPath, ready)
	}

	if a.config.LivenessPath != "" {
		r.Get(a.config.LivenessPath, health.Liveness)
		r.Head(a.config.LivenessPath, health.NoContent)
	}

	// Every method reaches the static server so it can answer 405 itself.
	r.Handle("/*", a.static)

	return r
}

// isProbe reports health and liveness requests, which stay out of access logs.
func (a *App) isProbe(r *http.Request) bool {
	p := r.URL.Path
	return p != "" && (p == a.config.HealthPath || p == a.config.LivenessPath)
}
