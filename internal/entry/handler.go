package entry

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Handler serves the read API for the tracked entry.
type Handler struct {
	tracker *Tracker
	logger  *zap.Logger
}

// NewHandler creates the entry API handler.
func NewHandler(tracker *Tracker, logger *zap.Logger) *Handler {
	return &Handler{tracker: tracker, logger: logger}
}

// RegisterRoutes registers entry routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/entry", h.handleGetEntry)
}

// handleGetEntry returns the current projection of the tracked network.
func (h *Handler) handleGetEntry(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Projection())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
