package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/portfolio/contact/internal/model"
	"github.com/portfolio/contact/internal/repository"
	"github.com/portfolio/contact/internal/service"
	"github.com/portfolio/contact/internal/validation"
)

const (
	defaultListLimit = 50

	msgSubmitted      = "Message sent successfully! Thank you for reaching out."
	msgInvalidBody    = "Invalid request body"
	msgSubmitFailed   = "Internal server error. Please try again later."
	msgListFailed     = "Error fetching messages"
	msgInvalidStatus  = "Invalid status. Must be one of: new, read, replied"
	msgNotFound       = "Message not found"
	msgStatusUpdated  = "Message status updated"
	msgUpdateFailed   = "Error updating message status"
	msgStatsFailed    = "Error fetching message statistics"
	msgValidationFail = "Validation Error"
)

// ContactHandler handles contact form submission and the admin message endpoints.
type ContactHandler struct {
	contactService    service.ContactService
	trustedProxyCount int
}

// NewContactHandler creates a ContactHandler with the given service.
// trustedProxyCount is the number of reverse proxies whose X-Forwarded-For
// entries are trusted when recording the client address.
func NewContactHandler(contactService service.ContactService, trustedProxyCount int) *ContactHandler {
	return &ContactHandler{contactService: contactService, trustedProxyCount: trustedProxyCount}
}

type submitData struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

type submitResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    submitData `json:"data"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	err := decodeBody(w, r, &sub, func(get func(string) string) {
		sub.Name = get("name")
		sub.Email = get("email")
		sub.Message = get("message")
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	sub.IPAddress = clientIP(r, h.trustedProxyCount)

	// Reject early with the first violation before hitting the service.
	if err := validation.Check(&sub); err != nil {
		h.writeSubmitError(w, err)
		return
	}

	msg, err := h.contactService.Submit(r.Context(), sub)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	slog.Info("new message received", "id", msg.ID, "name", msg.Name, "email", msg.Email)

	writeJSON(w, http.StatusCreated, submitResponse{
		Success: true,
		Message: msgSubmitted,
		Data: submitData{
			ID:    msg.ID,
			Name:  msg.Name,
			Email: msg.Email,
			Date:  msg.Date,
		},
	})
}

func (h *ContactHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		message := ve.First()
		if message == "" {
			message = msgValidationFail
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Success: false,
			Message: message,
			Errors:  ve.Messages(),
		})
		return
	}
	slog.Error("failed to save message", "error", err)
	writeError(w, http.StatusInternalServerError, msgSubmitFailed)
}

type pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Skip    int   `json:"skip"`
	HasMore bool  `json:"hasMore"`
}

type listResponse struct {
	Success    bool                    `json:"success"`
	Data       []*model.ContactMessage `json:"data"`
	Pagination pagination              `json:"pagination"`
}

// List handles GET /api/messages.
// Query params: status, limit (default 50), skip (default 0).
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.ContactListOptions{
		Status: model.Status(q.Get("status")),
		Limit:  defaultListLimit,
		Skip:   0,
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("skip")); err == nil && n >= 0 {
		opts.Skip = n
	}

	page, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		slog.Error("failed to fetch messages", "error", err)
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    page.Messages,
		Pagination: pagination{
			Total:   page.Total,
			Limit:   page.Limit,
			Skip:    page.Skip,
			HasMore: page.HasMore,
		},
	})
}

type messageResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *model.ContactMessage `json:"data"`
}

// UpdateStatus handles PATCH /api/messages/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	err := decodeBody(w, r, &req, func(get func(string) string) {
		req.Status = get("status")
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidStatus)
		return
	}

	if _, err := model.ParseStatus(req.Status); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidStatus)
		return
	}

	msg, err := h.contactService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	switch {
	case errors.Is(err, model.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, msgInvalidStatus)
		return
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	case err != nil:
		slog.Error("failed to update message status", "id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, msgUpdateFailed)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: msgStatusUpdated,
		Data:    msg,
	})
}

type statsResponse struct {
	Success bool                `json:"success"`
	Data    *model.ContactStats `json:"data"`
}

// Stats handles GET /api/messages/stats.
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		slog.Error("failed to fetch message stats", "error", err)
		writeError(w, http.StatusInternalServerError, msgStatsFailed)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Data: stats})
}
