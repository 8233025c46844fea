package handler

import "net/http"

// NewRouter registers every API route and wraps the mux in the middleware chain.
func NewRouter(h *Handler, contacts *ContactHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/ready", h.Ready)

	mux.HandleFunc("POST /api/contact", contacts.Submit)
	mux.HandleFunc("GET /api/messages", contacts.List)
	mux.HandleFunc("GET /api/messages/stats", contacts.Stats)
	mux.HandleFunc("PATCH /api/messages/{id}/status", contacts.UpdateStatus)

	mux.HandleFunc("/", h.NotFound)

	return RequestLogger(Recoverer(SecurityHeaders(h.CORS(mux))))
}
