package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/champsim/internal/domain/types"
	"github.com/okian/champsim/internal/report"
)

// SimulationsHandler serves the /simulations resource.
type SimulationsHandler struct {
	deps     Dependencies
	maxLimit int
	maxBins  int
}

// NewSimulationsHandler creates a new simulations handler.
func NewSimulationsHandler(deps Dependencies, opts ...Option) *SimulationsHandler {
	h := &SimulationsHandler{
		deps:     deps,
		maxLimit: defaultMaxLimit,
		maxBins:  defaultMaxBins,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleCreate handles POST /simulations. The run completes before the
// response is written.
func (h *SimulationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_simulation"

	var req types.SimulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sim, err := h.deps.Simulate(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/simulations/"+sim.ID)
	writeJSON(w, http.StatusCreated, sim)
}

// HandleList handles GET /simulations?limit=N, newest first.
func (h *SimulationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_simulations"

	n, err := intParam(r, "limit", defaultListLimit)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			WrapKind(op, ErrBadRequest, fmt.Errorf("limit %d exceeds %d", n, h.maxLimit)))
		return
	}

	sims, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sims)
}

// HandleGet handles GET /simulations/{id}.
func (h *SimulationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_simulation"

	sim, err := h.deps.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

// HandleHistogram handles GET /simulations/{id}/histogram?bins=N.
func (h *SimulationsHandler) HandleHistogram(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_histogram"

	bins, err := intParam(r, "bins", min(report.DefaultBins, h.maxBins))
	if err != nil || bins < 1 || bins > h.maxBins {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("bins must be in [1, %d]", h.maxBins)))
		return
	}

	hist, err := h.deps.Histogram(r.Context(), r.PathValue("id"), bins)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
