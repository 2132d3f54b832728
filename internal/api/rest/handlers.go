package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/schedule"
	"github.com/fortuna/kickoff/internal/store"
)

// ScheduleProvider exposes the latest aggregation state and lets the API
// trigger a fresh run.
type ScheduleProvider interface {
	Snapshot() []*schedule.Match
	Refresh(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers. The archive is nil when
// no database is configured.
type Handler struct {
	provider ScheduleProvider
	archive  *store.Database
	log      *zap.Logger
}

// NewHandler creates a handler.
func NewHandler(provider ScheduleProvider, archive *store.Database, log *zap.Logger) *Handler {
	return &Handler{provider: provider, archive: archive, log: log}
}

// HealthCheck reports service liveness and archive reachability.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "healthy",
		"service": "kickoff",
		"matches": len(h.provider.Snapshot()),
	}
	if h.archive != nil {
		if err := h.archive.HealthCheck(r.Context()); err != nil {
			status["archive"] = "unreachable"
		} else {
			status["archive"] = "ok"
		}
	}
	respondJSON(w, http.StatusOK, status)
}

// GetSchedule returns the full current match set.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.provider.Snapshot())
}

// GetMatch returns one match by id.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchID"]
	for _, m := range h.provider.Snapshot() {
		if m.ID == matchID {
			respondJSON(w, http.StatusOK, m)
			return
		}
	}
	respondError(w, http.StatusNotFound, "match not found", nil)
}

// GetRuns returns recent archived runs.
func (h *Handler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusNotFound, "run archive not configured", nil)
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	runs, err := h.archive.RecentRuns(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list runs", err)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

// TriggerRefresh runs a fresh aggregation batch synchronously.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.Refresh(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "refresh failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "refresh complete",
		"matches": len(h.provider.Snapshot()),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	respondJSON(w, status, body)
}
