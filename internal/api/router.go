package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/showcase-studio/engine/internal/api/handlers"
	mw "github.com/showcase-studio/engine/internal/api/middleware"
)

type Dependencies struct {
	ProjectsHandler *handlers.ProjectsHandler
	HealthHandler   *handlers.HealthHandler
	RateLimiter     *mw.RateLimiter
	BodyLimitBytes  int64
	Production      bool
	TrustProxy      bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	if dep.TrustProxy {
		r.Use(chimid.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.Metrics)
	r.Use(mw.SecureHeaders(dep.Production))
	r.Use(mw.CORS)
	if dep.RateLimiter != nil {
		r.Use(dep.RateLimiter.Handler)
	}
	if dep.BodyLimitBytes > 0 {
		r.Use(mw.BodyLimit(dep.BodyLimitBytes))
	}
	r.Use(chimid.Compress(5))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health endpoints
	hh := dep.HealthHandler
	r.Get("/health", hh.Health)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/projects", func(pr chi.Router) {
		pr.Get("/", dep.ProjectsHandler.List)
		pr.Post("/", dep.ProjectsHandler.Create)
		pr.Get("/{id}", dep.ProjectsHandler.Get)
		pr.Put("/{id}", dep.ProjectsHandler.Update)
		pr.Delete("/{id}", dep.ProjectsHandler.Delete)
		pr.Get("/{id}/stats", dep.ProjectsHandler.Stats)
	})

	return r
}
