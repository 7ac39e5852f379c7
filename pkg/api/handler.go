package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/web3-connect/pkg/web3"
)

const (
	defaultWatchTimeout = 30 * time.Second
	maxWatchTimeout     = 5 * time.Minute
)

// Handler exposes the resolved web3 state to UI consumers. It never mutates
// the state.
type Handler struct {
	log   logrus.FieldLogger
	state *web3.State
}

func NewHandler(log logrus.FieldLogger, state *web3.State) *Handler {
	return &Handler{
		log:   log,
		state: state,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/state", h.getState)
	mux.HandleFunc("GET /api/v1/state/watch", h.watchState)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) getState(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.state.Snapshot())
}

// watchState blocks until the state changes, the timeout elapses or the
// client goes away, then returns the current snapshot.
func (h *Handler) watchState(w http.ResponseWriter, r *http.Request) {
	timeout := defaultWatchTimeout

	if raw := r.URL.Query().Get("timeout"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid timeout"})

			return
		}

		timeout = min(parsed, maxWatchTimeout)
	}

	changed := h.state.Changed()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-changed:
	case <-timer.C:
	case <-r.Context().Done():
		return
	}

	h.writeJSON(w, http.StatusOK, h.state.Snapshot())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.WithError(err).Error("Failed to encode response")
	}
}
