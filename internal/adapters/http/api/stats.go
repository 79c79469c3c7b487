package api

import (
	"context"
	"net/http"

	"github.com/okian/champsim/internal/domain/types"
)

// StatsProvider reports the live state of the simulation service.
type StatsProvider interface {
	GetStats(ctx context.Context) types.Stats
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats writes a fresh snapshot; queue length and processed jobs move
// while runs are in flight, so the response is never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats(r.Context()))
}
