package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

// Engine computes analyses and serves stored results.
type Engine interface {
	domain.Analyzer
	Result(id domain.AssessmentID) (domain.RiskAssessment, bool)
}

// Server is the reference Geocoding and Analysis backend. It also exposes
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	geocoder   domain.Geocoder
	engine     Engine
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the API and operational routes. A nil geocoder makes
// /api/geocode report the service as unavailable.
func NewServer(addr string, ready sharedobs.ReadinessChecker, geocoder domain.Geocoder, engine Engine, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		geocoder: geocoder,
		engine:   engine,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/geocode", s.handleGeocode)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/results/{id}", s.handleResult)

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

// ReadinessFunc adapts a function to sharedobs.ReadinessChecker.
type ReadinessFunc func(ctx context.Context) error

func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }
