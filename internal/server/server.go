// Package server exposes the extraction pipeline over HTTP.
//
// Routes:
//
//   - POST /v1/extract — run extraction on a transcript.
//   - GET  /healthz, /readyz — liveness and readiness probes.
//   - GET  /metrics — Prometheus scrape endpoint.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskmill/taskmill/internal/config"
	"github.com/taskmill/taskmill/internal/extract"
	"github.com/taskmill/taskmill/internal/extract/llmextract"
	"github.com/taskmill/taskmill/internal/health"
	"github.com/taskmill/taskmill/internal/observe"
)

// maxTranscriptBytes bounds request bodies; anything larger than this is
// not a meeting transcript.
const maxTranscriptBytes = 1 << 20

// Server routes extraction requests to per-mode pipeline services.
type Server struct {
	services    map[config.Mode]*extract.Service
	defaultMode config.Mode
	metrics     *observe.Metrics
	health      *health.Handler
	registry    *prometheus.Registry
	logger      *slog.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithHealth sets the health handler. Default: a handler with no readiness
// checks.
func WithHealth(h *health.Handler) Option {
	return func(s *Server) {
		s.health = h
	}
}

// WithMetricsRegistry sets the Prometheus registry served at /metrics.
// Without one, /metrics returns 404.
func WithMetricsRegistry(r *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a [Server]. services maps each supported extraction mode to
// its pipeline service; defaultMode is used when a request names no mode
// and must be present in services.
func New(services map[config.Mode]*extract.Service, defaultMode config.Mode, metrics *observe.Metrics, opts ...Option) *Server {
	s := &Server{
		services:    services,
		defaultMode: defaultMode,
		metrics:     metrics,
		health:      health.New(),
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the fully-routed HTTP handler with observability
// middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/extract", s.handleExtract)
	mux.HandleFunc("GET /healthz", s.health.Healthz)
	mux.HandleFunc("GET /readyz", s.health.Readyz)
	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return observe.Middleware(s.metrics, s.logger)(mux)
}

// extractRequest is the body of POST /v1/extract.
type extractRequest struct {
	// Transcript is the raw meeting transcript. Required.
	Transcript string `json:"transcript"`

	// TeamID selects the roster tasks are resolved against. Optional.
	TeamID string `json:"teamId,omitempty"`

	// Mode overrides the server's default extraction mode. Optional.
	Mode string `json:"mode,omitempty"`
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTranscriptBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "transcript must not be empty"})
		return
	}

	mode := s.defaultMode
	if req.Mode != "" {
		mode = config.Mode(req.Mode)
		if !mode.IsValid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown mode: " + req.Mode})
			return
		}
	}
	svc, ok := s.services[mode]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mode not available: no model provider configured"})
		return
	}

	result, err := svc.Extract(r.Context(), req.Transcript, req.TeamID)
	if err != nil {
		s.writeExtractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeExtractError maps pipeline failures onto HTTP statuses. Completion
// service failures are upstream problems (502); everything else is a server
// error.
func (s *Server) writeExtractError(w http.ResponseWriter, err error) {
	var malformed *llmextract.MalformedResponseError
	switch {
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: "model response could not be parsed",
			Code:  "MALFORMED_RESPONSE",
		})
	case errors.Is(err, llmextract.ErrServiceUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: "completion service unavailable",
			Code:  "SERVICE_UNAVAILABLE",
		})
	default:
		s.logger.Error("extraction failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "extraction failed"})
	}
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
