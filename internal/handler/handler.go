package handler

import (
	"net/http"

	"github.com/portfolio/contact/internal/repository"
)

// Handler serves the process-level endpoints and cross-cutting middleware.
type Handler struct {
	db             repository.DB
	allowedOrigins map[string]bool
	allowAny       bool
}

func New(db repository.DB, allowedOrigins []string) *Handler {
	h := &Handler{db: db, allowedOrigins: make(map[string]bool, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		if o == "*" {
			h.allowAny = true
		}
		h.allowedOrigins[o] = true
	}
	return h
}

// CORS echoes allow-listed origins with credentials and answers preflights.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (h.allowAny || h.allowedOrigins[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NotFound answers every unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "API endpoint not found")
}
