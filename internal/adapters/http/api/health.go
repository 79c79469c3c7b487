package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/champsim/pkg/metrics"
)

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	stats StatsProvider
}

// NewHealthHandler creates a health handler. Readiness follows the worker
// pool reported by stats.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// HandleHealth handles GET /healthz. The process is alive if it answers.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady handles GET /readyz: 200 once the worker pool is running,
// 503 before Start and after Stop.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil || !h.stats.GetStats(r.Context()).Started {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// MetricsHandler serves the simulator's Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
