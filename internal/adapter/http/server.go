// Package http exposes the assessment API alongside the service's
// health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/emberwatch/ignition-service/internal/ignition"
	"github.com/emberwatch/ignition-service/internal/observability"
	"github.com/emberwatch/ignition-service/internal/tables"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// assessRequest is the POST /v1/assess body. Aspect accepts the compass
// names or the table's single-letter codes.
type assessRequest struct {
	Temperature      float64 `json:"temperature_c"`
	RelativeHumidity float64 `json:"relative_humidity_pct"`
	Hour             float64 `json:"hour"`
	Month            int     `json:"month"`
	ShadePercent     float64 `json:"shade_pct"`
	SlopePercent     float64 `json:"slope_pct"`
	Aspect           string  `json:"aspect"`
}

// Server exposes the assessment endpoint plus health, readiness, and
// metrics routes.
type Server struct {
	httpServer *http.Server
	calc       *ignition.Calculator
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /v1/assess routes.
func NewServer(addr string, calc *ignition.Calculator, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		calc:    calc,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/assess", s.handleAssess)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleAssess computes one assessment. Malformed bodies are 400, inputs
// outside the covered table domain are 422, missing reference tables
// (configuration errors) are 500.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.AssessmentFailures.WithLabelValues("invalid_input").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	aspect, err := ignition.ParseAspect(req.Aspect)
	if err != nil {
		s.metrics.AssessmentFailures.WithLabelValues("invalid_input").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.calc.Assess(ignition.Inputs{
		Temperature:      req.Temperature,
		RelativeHumidity: req.RelativeHumidity,
		Hour:             req.Hour,
		Month:            req.Month,
		ShadePercent:     req.ShadePercent,
		SlopePercent:     req.SlopePercent,
		Aspect:           aspect,
	})
	if err != nil {
		s.writeAssessError(w, err)
		return
	}

	s.metrics.AssessmentsComputed.WithLabelValues(result.Category.Name).Inc()
	s.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeAssessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ignition.ErrTemperatureOutOfRange),
		errors.Is(err, ignition.ErrHumidityOutOfRange):
		s.metrics.AssessmentFailures.WithLabelValues("range_miss").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, tables.ErrMissingTable), errors.Is(err, tables.ErrMalformedTable):
		s.metrics.AssessmentFailures.WithLabelValues("configuration").Inc()
		s.logger.Error("reference table failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reference table unavailable"})
	default:
		s.metrics.AssessmentFailures.WithLabelValues("invalid_input").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
