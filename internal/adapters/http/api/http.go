// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/champsim/internal/domain/types"
)

// Default request limits.
const (
	defaultListLimit = 20
	defaultMaxLimit  = 100
	defaultMaxBins   = 500
	maxBodyBytes     = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Simulate runs a simulation to completion and stores it.
	Simulate(ctx context.Context, req types.SimulationRequest) (types.Simulation, error)

	// Read operations expose stored runs.
	Get(ctx context.Context, id string) (types.Simulation, error)
	Recent(ctx context.Context, n int) ([]types.Simulation, error)
	Histogram(ctx context.Context, id string, bins int) (types.Histogram, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	simulationsHandler *SimulationsHandler
}

// Option applies a configuration option to the Server.
type Option func(*SimulationsHandler)

// WithMaxListLimit caps GET /simulations?limit.
func WithMaxListLimit(n int) Option {
	return func(h *SimulationsHandler) {
		if n > 0 {
			h.maxLimit = n
		}
	}
}

// WithMaxBins caps GET /simulations/{id}/histogram?bins.
func WithMaxBins(n int) Option {
	return func(h *SimulationsHandler) {
		if n > 0 {
			h.maxBins = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(statsProvider),
		statsHandler:       NewStatsHandler(statsProvider),
		simulationsHandler: NewSimulationsHandler(deps, opts...),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.Handle("GET /metrics", MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /simulations", MetricsMiddleware(s.simulationsHandler.HandleCreate, "simulations"))
	mux.HandleFunc("GET /simulations", MetricsMiddleware(s.simulationsHandler.HandleList, "simulations"))
	mux.HandleFunc("GET /simulations/{id}", MetricsMiddleware(s.simulationsHandler.HandleGet, "simulation"))
	mux.HandleFunc("GET /simulations/{id}/histogram", MetricsMiddleware(s.simulationsHandler.HandleHistogram, "histogram"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure picks the status from the error's kind.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
