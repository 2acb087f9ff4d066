package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/referee-assignment/internal/authz"
	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/wage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(nil, nil, logger)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.NewValidationError("refs_needed", "must be at least 1"), http.StatusBadRequest, ""},
		{"invalid enum", fmt.Errorf("%w: unknown status", domain.ErrInvalidEnum), http.StatusBadRequest, ""},
		{"game not open", fmt.Errorf("%w: game is cancelled", domain.ErrGameNotOpen), http.StatusBadRequest, ""},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden, ""},
		{"not found", domain.ErrGameNotFound, http.StatusNotFound, ""},
		{"duplicate", domain.ErrDuplicateAssignment, http.StatusConflict, domain.CodeDuplicateAssignment},
		{"time conflict", domain.ErrTimeConflict, http.StatusConflict, domain.CodeTimeConflict},
		{"game full", domain.ErrGameFull, http.StatusConflict, domain.CodeGameFull},
		{"invalid transition", &domain.InvalidTransitionError{From: "declined", To: "accepted"}, http.StatusConflict, domain.CodeInvalidTransition},
		{"live assignments", fmt.Errorf("%w: game has 2 live assignments", domain.ErrLiveAssignments), http.StatusConflict, ""},
		{"computation", wage.ErrNonPositiveMultiplier, http.StatusUnprocessableEntity, ""},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeDomainError(rec, c.err)

			assert.Equal(t, c.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, c.wantCode, resp.Code)
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.writeDomainError(rec, errors.New("pq: password authentication failed"))

	resp := decodeResponse(t, rec)
	assert.Equal(t, domain.ErrInternalError.Error(), resp.Error)
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)

	rec = httptest.NewRecorder()
	h.ReadyCheck(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrincipalMiddleware(t *testing.T) {
	var got authz.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authz.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "assigner-1")
	req.Header.Set("X-Org-ID", "org-1")
	rec := httptest.NewRecorder()
	principalMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, "assigner-1", got.UserID)
	assert.Equal(t, "org-1", got.OrgID)
}
