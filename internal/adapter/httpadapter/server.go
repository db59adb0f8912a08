package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/render"
)

// ForecastReader serves the latest normalized forecast per location.
type ForecastReader interface {
	Get(location string) (domain.ForecastRecord, bool)
	Locations() []string
}

// Server exposes health, readiness, metrics and forecast HTTP endpoints.
type Server struct {
	httpServer *http.Server
	forecasts  ForecastReader
	opts       domain.Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /forecasts routes. opts are the display options used by the view route.
func NewServer(addr string, ready sharedobs.ReadinessChecker, forecasts ForecastReader, opts domain.Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forecasts: forecasts,
		opts:      opts.Sanitize(),
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /forecasts", s.handleLocations)
	mux.HandleFunc("GET /forecasts/{location}", s.handleForecast)
	mux.HandleFunc("GET /forecasts/{location}/view", s.handleView)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"locations": s.forecasts.Locations()})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, render.Build(rec, s.opts, domain.Now()))
}

// lookup finds the record named by the {location} path segment, writing a
// 404 when there is none.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (domain.ForecastRecord, bool) {
	location := r.PathValue("location")
	rec, ok := s.forecasts.Get(location)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":    "no forecast for location",
			"location": location,
		})
		return domain.ForecastRecord{}, false
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
