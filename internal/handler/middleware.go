package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// SecurityHeaders adds security response headers (CSP, X-Frame-Options, etc.)
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// writeTracker records whether a handler has started its response.
type writeTracker struct {
	http.ResponseWriter
	wrote bool
}

func (wt *writeTracker) WriteHeader(code int) {
	wt.wrote = true
	wt.ResponseWriter.WriteHeader(code)
}

func (wt *writeTracker) Write(b []byte) (int, error) {
	wt.wrote = true
	return wt.ResponseWriter.Write(b)
}

func (wt *writeTracker) Unwrap() http.ResponseWriter { return wt.ResponseWriter }

// Recoverer converts a panic in a handler into a generic 500 envelope.
// The panic value and stack go to the log only. When the handler already
// started writing, the partial response is left as is.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wt := &writeTracker{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("unhandled panic",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"response_started", wt.wrote,
			)
			if wt.wrote {
				return
			}
			writeError(w, http.StatusInternalServerError, "Something went wrong!")
		}()
		next.ServeHTTP(wt, r)
	})
}

// clientIP extracts the client address. With trusted proxies it reads the
// X-Forwarded-For entry appended by the outermost trusted proxy, so clients
// cannot spoof it by sending their own header.
func clientIP(r *http.Request, trustedProxyCount int) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		idx := len(parts) - trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
