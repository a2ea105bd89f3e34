// Package http assembles the chi route tree and the HTTP server of the
// interaction API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/interactome/internal/interfaces/http/handlers"
	"github.com/turtacn/interactome/internal/interfaces/http/middleware"
)

// DefaultMetricsPath is where the Prometheus scrape endpoint is mounted.
const DefaultMetricsPath = "/metrics"

// RouterConfig aggregates the handlers and middleware of the route tree.
// Nil handlers leave their routes unregistered.
type RouterConfig struct {
	GraphHandler  *handlers.GraphHandler
	ViewHandler   *handlers.ViewHandler
	HealthHandler *handlers.HealthHandler

	CORS      *middleware.CORSConfig
	Logging   *middleware.LoggingConfig
	RateLimit *middleware.RateLimitConfig

	Logger           logging.Logger
	Metrics          middleware.HTTPObserver
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logging != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, *cfg.Logging))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if h := cfg.HealthHandler; h != nil {
		r.Get("/healthz", h.Liveness)
		r.Get("/readyz", h.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimit != nil {
			api.Use(middleware.RateLimit(*cfg.RateLimit))
		}
		registerGraphRoutes(api, cfg.GraphHandler)
		registerViewRoutes(api, cfg.ViewHandler)
	})

	return r
}

// registerGraphRoutes mounts the stateless pipeline endpoints.
func registerGraphRoutes(r chi.Router, h *handlers.GraphHandler) {
	if h == nil {
		return
	}
	r.Post("/graphs/normalize", h.Normalize)
	r.Post("/graphs/filter", h.Filter)
	r.Post("/selections", h.Select)
}

// registerViewRoutes mounts the view resource under /views.
func registerViewRoutes(r chi.Router, h *handlers.ViewHandler) {
	if h == nil {
		return
	}
	r.Route("/views", func(vr chi.Router) {
		vr.Post("/", h.Open)

		vr.Route("/{"+handlers.ViewIDParam+"}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Close)
			item.Post("/reload", h.Reload)
			item.Put("/filter", h.UpdateFilter)
			item.Put("/mode", h.SetMode)

			item.Post("/viewer", h.Mount)
			item.Delete("/viewer", h.Unmount)
			item.Get("/viewer/commands", h.Commands)
			item.Get("/viewer/representations", h.Representations)

			item.Post("/layout/drag", h.Drag)
			item.Post("/layout/step", h.Step)

			item.Post("/snapshot", h.Snapshot)
		})
	})
}

//Personal.AI order the ending
