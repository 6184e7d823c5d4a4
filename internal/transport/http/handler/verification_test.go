package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/unibuy/unibuy-api/internal/domain"
)

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) Submit(ctx context.Context, userID string, req domain.SubmitDocumentRequest) (*domain.StudentDocument, error) {
	args := m.Called(ctx, userID, req)
	if d, _ := args.Get(0).(*domain.StudentDocument); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerificationSvc) Status(ctx context.Context, userID string) (*domain.StudentDocument, error) {
	args := m.Called(ctx, userID)
	if d, _ := args.Get(0).(*domain.StudentDocument); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerificationSvc) Review(ctx context.Context, documentID, reviewerID string, approve bool) (*domain.StudentDocument, error) {
	args := m.Called(ctx, documentID, reviewerID, approve)
	if d, _ := args.Get(0).(*domain.StudentDocument); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerificationSvc) File(ctx context.Context, documentID string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, documentID)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSubmit_MissingClaims(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	r := httptest.NewRequest(http.MethodPost, "/api/verification/student", nil)
	rr := httptest.NewRecorder()
	h.Submit(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSubmit_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockVerificationSvc{}
	doc := &domain.StudentDocument{DocumentID: "d1", UserID: "u1", Status: domain.DocumentPending}
	svc.On("Submit", mock.Anything, "u1", mock.Anything).Return(doc, nil)
	h := NewVerificationHandler(svc)

	body, _ := json.Marshal(domain.SubmitDocumentRequest{ContentType: "image/png", Data: "aGVsbG8="})
	r := bearerReq(t, p, http.MethodPost, "/api/verification/student", "u1", domain.RoleUser, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp domain.StudentDocument
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, domain.DocumentPending, resp.Status)
	svc.AssertExpectations(t)
}

func TestStatus_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockVerificationSvc{}
	doc := &domain.StudentDocument{DocumentID: "d1", UserID: "u1", Status: domain.DocumentApproved}
	svc.On("Status", mock.Anything, "u1").Return(doc, nil)
	h := NewVerificationHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/api/verification/student", "u1", domain.RoleUser, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Status), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp domain.StudentDocument
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, domain.DocumentApproved, resp.Status)
}

func TestStatus_NoSubmission(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockVerificationSvc{}
	svc.On("Status", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	h := NewVerificationHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/api/verification/student", "u1", domain.RoleUser, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Status), rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReview_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockVerificationSvc{}
	reviewer := "admin1"
	doc := &domain.StudentDocument{DocumentID: "d1", UserID: "u1", Status: domain.DocumentApproved, ReviewedBy: &reviewer}
	svc.On("Review", mock.Anything, "d1", "admin1", true).Return(doc, nil)
	h := NewVerificationHandler(svc)

	body, _ := json.Marshal(domain.ReviewDocumentRequest{Approve: true})
	r := bearerReq(t, p, http.MethodPut, "/api/verification/student/d1/review", "admin1", domain.RoleAdmin, body)
	r = withChiID(r, "d1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Review), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestFile_StreamsDocument(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("File", mock.Anything, "d1").
		Return(io.NopCloser(strings.NewReader("png-bytes")), "image/png", nil)
	h := NewVerificationHandler(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/verification/student/d1/file", nil)
	r = withChiID(r, "d1")
	rr := httptest.NewRecorder()
	h.File(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rr.Body.String())
	svc.AssertExpectations(t)
}

func TestFile_UnknownDocument(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("File", mock.Anything, "ghost").
		Return(nil, "", fmt.Errorf("document not found: %w", domain.ErrNotFound))
	h := NewVerificationHandler(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/verification/student/ghost/file", nil)
	r = withChiID(r, "ghost")
	rr := httptest.NewRecorder()
	h.File(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReview_AlreadyReviewed(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockVerificationSvc{}
	svc.On("Review", mock.Anything, "d1", "admin1", false).
		Return(nil, fmt.Errorf("document already reviewed: %w", domain.ErrConflict))
	h := NewVerificationHandler(svc)

	body, _ := json.Marshal(domain.ReviewDocumentRequest{Approve: false})
	r := bearerReq(t, p, http.MethodPut, "/api/verification/student/d1/review", "admin1", domain.RoleAdmin, body)
	r = withChiID(r, "d1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Review), rr, r)

	assert.Equal(t, http.StatusConflict, rr.Code)
}
