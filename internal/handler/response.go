package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
)

// maxBodyBytes caps request bodies at 100KB.
const maxBodyBytes = 100 << 10

// errorResponse is the envelope for every failed request.
type errorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

// isForm reports whether the request body is URL-encoded form data.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}

// decodeBody reads a JSON body into dst, or fills it from form fields when
// the request is URL-encoded. fromForm maps form values onto dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, fromForm func(get func(string) string)) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return err
		}
		fromForm(r.PostForm.Get)
		return nil
	}
	// An empty body decodes to the zero value so validation can name the missing fields.
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
