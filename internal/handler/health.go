package handler

import (
	"log/slog"
	"net/http"
	"time"
)

type healthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// isoMillis matches the ISO-8601 form browsers produce, e.g. 2024-01-02T03:04:05.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Health always reports success; it does not touch the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Message:   "Backend server is running",
		Timestamp: time.Now().UTC().Format(isoMillis),
	})
}

// Ready reports whether the store answers a ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Warn("database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Success:   false,
			Message:   "Database unavailable",
			Timestamp: time.Now().UTC().Format(isoMillis),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Message:   "Database reachable",
		Timestamp: time.Now().UTC().Format(isoMillis),
	})
}
