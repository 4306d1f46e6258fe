package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/event-registry/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RouterOptions controls the optional parts of the router.
type RouterOptions struct {
	WebDir         string
	MetricsEnabled bool
}

// NewRouter builds the chi router for the registry API. Anything that does
// not match an API route, including GET on the POST-only paths, is served
// from opts.WebDir.
func NewRouter(h *EventHandler, logger zerolog.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(logger))
	r.Use(CORS)
	if opts.MetricsEnabled {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Get("/health", HealthCheck)

	r.Get("/events", h.ListEvents)
	r.Post("/add_event", h.AddEvent)
	r.Post("/delete_event", h.DeleteEvent)
	r.Post("/register", h.Register)
	r.Post("/search", h.Search)
	r.Post("/update_event", h.UpdateEvent)

	static := http.FileServer(http.Dir(opts.WebDir))
	r.Handle("/*", static)
	r.MethodNotAllowed(static.ServeHTTP)

	return r
}
