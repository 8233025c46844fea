package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/portfolio/contact/internal/model"
	"github.com/portfolio/contact/internal/repository"
	"github.com/portfolio/contact/internal/validation"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc       func(ctx context.Context, sub model.Submission) (*model.ContactMessage, error)
	listFunc         func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error)
	updateStatusFunc func(ctx context.Context, id, status string) (*model.ContactMessage, error)
	statsFunc        func(ctx context.Context) (*model.ContactStats, error)
}

func (m *mockContactService) Submit(ctx context.Context, sub model.Submission) (*model.ContactMessage, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return &model.ContactMessage{ID: "id-1", Name: sub.Name, Email: sub.Email, Message: sub.Message, Status: model.StatusNew}, nil
}

func (m *mockContactService) List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return &model.ContactPage{Messages: []*model.ContactMessage{}, Limit: opts.Limit, Skip: opts.Skip}, nil
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id, status string) (*model.ContactMessage, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return &model.ContactMessage{ID: id, Status: model.Status(status)}, nil
}

func (m *mockContactService) Stats(ctx context.Context) (*model.ContactStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.ContactStats{ByStatus: map[model.Status]int64{}}, nil
}

// patchStatus calls UpdateStatus through a mux so {id} is populated.
func patchStatus(h *ContactHandler, id, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/messages/{id}/status", h.UpdateStatus)
	req := httptest.NewRequest(http.MethodPatch, "/api/messages/"+id+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

// ---------------------------------------------------------------------------
// POST /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured model.Submission
	date := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.Submission) (*model.ContactMessage, error) {
			captured = sub
			return &model.ContactMessage{ID: "abc123", Name: sub.Name, Email: sub.Email, Message: sub.Message, Date: date}, nil
		},
	}
	h := NewContactHandler(mock, 0)

	body := `{"name":"Ann","email":"ANN@x.com","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "198.51.100.7:4000"
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if captured.Email != "ann@x.com" {
		t.Errorf("expected normalized email, got %q", captured.Email)
	}
	if captured.IPAddress != "198.51.100.7" {
		t.Errorf("expected client ip, got %q", captured.IPAddress)
	}

	var resp submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message != msgSubmitted {
		t.Errorf("unexpected envelope %+v", resp)
	}
	if resp.Data.ID != "abc123" || resp.Data.Email != "ann@x.com" || !resp.Data.Date.Equal(date) {
		t.Errorf("unexpected data %+v", resp.Data)
	}
}

func TestContactHandler_Submit_Form(t *testing.T) {
	var captured model.Submission
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.Submission) (*model.ContactMessage, error) {
			captured = sub
			return &model.ContactMessage{ID: "f1", Name: sub.Name, Email: sub.Email}, nil
		},
	}
	h := NewContactHandler(mock, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("name=Bob&email=bob%40example.com&message=Hello"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Bob" || captured.Email != "bob@example.com" || captured.Message != "Hello" {
		t.Errorf("unexpected submission %+v", captured)
	}
}

// TestContactHandler_Submit_NameRequired: an empty name is rejected with a message citing the name.
func TestContactHandler_Submit_NameRequired(t *testing.T) {
	called := false
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.Submission) (*model.ContactMessage, error) {
			called = true
			return nil, nil
		},
	}
	h := NewContactHandler(mock, 0)

	body := `{"name":"","email":"a@b.com","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Success {
		t.Error("expected success=false")
	}
	if !strings.Contains(resp.Message, "Name") {
		t.Errorf("expected message to cite name, got %q", resp.Message)
	}
	if len(resp.Errors) != 1 || resp.Errors[0] != "Name is required" {
		t.Errorf("unexpected errors %v", resp.Errors)
	}
	if called {
		t.Error("service should not be called for invalid input")
	}
}

func TestContactHandler_Submit_EmptyBody(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if len(resp.Errors) != 3 {
		t.Errorf("expected every field to be reported, got %v", resp.Errors)
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContactHandler_Submit_InvalidEmail(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, 0)

	body := `{"name":"Ann","email":"ann@nowhere","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != "Please provide a valid email address" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestContactHandler_Submit_MessageTooLong(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, 0)

	body := `{"name":"Ann","email":"a@b.com","message":"` + strings.Repeat("x", 1001) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != "Message cannot exceed 1000 characters" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestContactHandler_Submit_ServiceValidationError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.Submission) (*model.ContactMessage, error) {
			return nil, &validation.ValidationError{Errors: []validation.FieldError{{Field: "email", Message: "Email is required"}}}
		},
	}
	h := NewContactHandler(mock, 0)

	body := `{"name":"Ann","email":"a@b.com","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContactHandler_Submit_ServiceError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.Submission) (*model.ContactMessage, error) {
			return nil, errors.New("mongo: server selection timeout at 10.1.2.3")
		},
	}
	h := NewContactHandler(mock, 0)

	body := `{"name":"Ann","email":"a@b.com","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.1.2.3") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Message != msgSubmitFailed {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

// ---------------------------------------------------------------------------
// GET /api/messages
// ---------------------------------------------------------------------------

func TestContactHandler_List_Defaults(t *testing.T) {
	var captured model.ContactListOptions
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
			captured = opts
			return &model.ContactPage{Messages: []*model.ContactMessage{}, Limit: opts.Limit, Skip: opts.Skip}, nil
		},
	}
	h := NewContactHandler(mock, 0)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/messages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 50 || captured.Skip != 0 || captured.Status != "" {
		t.Errorf("unexpected defaults %+v", captured)
	}

	var resp struct {
		Success    bool              `json:"success"`
		Data       []json.RawMessage `json:"data"`
		Pagination pagination        `json:"pagination"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Errorf("expected success with empty data array, got %+v", resp)
	}
	if resp.Pagination.Limit != 50 {
		t.Errorf("expected limit 50 in pagination, got %d", resp.Pagination.Limit)
	}
}

func TestContactHandler_List_QueryParams(t *testing.T) {
	tests := []struct {
		query      string
		wantStatus model.Status
		wantLimit  int
		wantSkip   int
	}{
		{"?status=read&limit=10&skip=20", model.StatusRead, 10, 20},
		{"?limit=abc&skip=-5", "", 50, 0},
		{"?limit=0", "", 50, 0},
		{"?limit=500", "", 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var captured model.ContactListOptions
			mock := &mockContactService{
				listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
					captured = opts
					return &model.ContactPage{Messages: []*model.ContactMessage{}}, nil
				},
			}
			h := NewContactHandler(mock, 0)
			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, "/api/messages"+tt.query, nil))

			if captured.Status != tt.wantStatus || captured.Limit != tt.wantLimit || captured.Skip != tt.wantSkip {
				t.Errorf("got %+v, want status=%q limit=%d skip=%d", captured, tt.wantStatus, tt.wantLimit, tt.wantSkip)
			}
		})
	}
}

func TestContactHandler_List_OmitsIPAddress(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
			return &model.ContactPage{
				Messages: []*model.ContactMessage{{ID: "1", Name: "Ann", IPAddress: "10.9.8.7"}},
				Total:    1,
				Limit:    50,
			}, nil
		},
	}
	h := NewContactHandler(mock, 0)
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/messages", nil))

	if strings.Contains(rec.Body.String(), "10.9.8.7") {
		t.Errorf("ip address exposed: %s", rec.Body.String())
	}
}

func TestContactHandler_List_ServiceError(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
			return nil, errors.New("db read failed")
		},
	}
	h := NewContactHandler(mock, 0)
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/messages", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != msgListFailed {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

// ---------------------------------------------------------------------------
// PATCH /api/messages/{id}/status
// ---------------------------------------------------------------------------

func TestContactHandler_UpdateStatus_Success(t *testing.T) {
	var gotID, gotStatus string
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			gotID, gotStatus = id, status
			return &model.ContactMessage{ID: id, Status: model.StatusReplied}, nil
		},
	}
	h := NewContactHandler(mock, 0)

	rec := patchStatus(h, "msg-1", `{"status":"replied"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if gotID != "msg-1" || gotStatus != "replied" {
		t.Errorf("service called with id=%q status=%q", gotID, gotStatus)
	}
	var resp messageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message != msgStatusUpdated || resp.Data.Status != model.StatusReplied {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestContactHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	called := false
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			called = true
			return nil, nil
		},
	}
	h := NewContactHandler(mock, 0)

	for _, body := range []string{`{"status":"archived"}`, `{}`, `not json`} {
		rec := patchStatus(h, "msg-1", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
		if resp := decodeError(t, rec); resp.Message != msgInvalidStatus {
			t.Errorf("%s: unexpected message %q", body, resp.Message)
		}
	}
	if called {
		t.Error("service should not be called for an invalid status")
	}
}

func TestContactHandler_UpdateStatus_NotFound(t *testing.T) {
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := NewContactHandler(mock, 0)

	rec := patchStatus(h, "missing", `{"status":"read"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != msgNotFound {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestContactHandler_UpdateStatus_ServiceError(t *testing.T) {
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			return nil, errors.New("write conflict")
		},
	}
	h := NewContactHandler(mock, 0)

	rec := patchStatus(h, "msg-1", `{"status":"read"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /api/messages/stats
// ---------------------------------------------------------------------------

func TestContactHandler_Stats_Success(t *testing.T) {
	mock := &mockContactService{
		statsFunc: func(ctx context.Context) (*model.ContactStats, error) {
			return &model.ContactStats{
				Total:    3,
				Today:    1,
				ByStatus: map[model.Status]int64{model.StatusNew: 2, model.StatusRead: 1},
			}, nil
		},
	}
	h := NewContactHandler(mock, 0)
	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/messages/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Total    int64            `json:"total"`
			Today    int64            `json:"today"`
			ByStatus map[string]int64 `json:"byStatus"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.Total != 3 || resp.Data.Today != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Data.ByStatus["new"] != 2 || resp.Data.ByStatus["read"] != 1 {
		t.Errorf("unexpected byStatus %v", resp.Data.ByStatus)
	}
}

func TestContactHandler_Stats_ServiceError(t *testing.T) {
	mock := &mockContactService{
		statsFunc: func(ctx context.Context) (*model.ContactStats, error) {
			return nil, errors.New("aggregate failed")
		},
	}
	h := NewContactHandler(mock, 0)
	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/messages/stats", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != msgStatsFailed {
		t.Errorf("unexpected message %q", resp.Message)
	}
}
