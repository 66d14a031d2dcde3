// Package server exposes the boot planner over HTTP.
//
// # Routes
//
//	POST /v1/schedules          compute a plan from a manifest (?strict=true, ?refresh=true)
//	GET  /v1/schedules          list recent plans (?limit=n)
//	GET  /v1/schedules/{id}     fetch a stored plan
//	GET  /v1/schedules/{id}/render?format=svg
//	POST /v1/render             compute and render in one step (?format=dot|svg)
//	GET  /healthz               liveness and build information
//
// Manifests are JSON by default; TOML and YAML bodies are accepted when the
// Content-Type says so. Errors are returned as
//
//	{"error": {"code": "CYCLIC_GRAPH", "message": "..."}}
//
// with the status chosen by [errors.HTTPStatus].
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bootorder/pkg/observability"
	"github.com/matzehuels/bootorder/pkg/pipeline"
	"github.com/matzehuels/bootorder/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Strict is the default for requests without ?strict.
	Strict bool
}

// New creates a server. A nil store falls back to a MemoryStore and a nil
// logger to log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Store: st, Logger: logger}
}

// Handler creates and configures the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logging)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/schedules", s.createSchedule)
		r.Get("/schedules", s.listSchedules)
		r.Get("/schedules/{id}", s.getSchedule)
		r.Get("/schedules/{id}/render", s.renderSchedule)
		r.Post("/render", s.render)
	})

	return r
}

// logging logs each request and reports it to the HTTP hooks.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, duration)
		s.Logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", chimiddleware.GetReqID(r.Context()))
	})
}
