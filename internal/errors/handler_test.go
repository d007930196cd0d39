package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewErrorHandler(logger, false)
}

func TestErrorToProblem(t *testing.T) {
	handler := newTestHandler()
	req := httptest.NewRequest("GET", "/api/v1/intensity", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "api error authority not found",
			err:        AuthorityNotFoundError("MISO"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeAuthorityNotFound,
		},
		{
			name:       "api error invalid date range",
			err:        ErrInvalidDateRange,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidDateRange,
		},
		{
			name:       "api error dataset unavailable",
			err:        ErrDatasetUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetUnavailable,
		},
		{
			name:       "plain not found message",
			err:        errors.New("series EBA.CISO-ALL.NG.WND.H not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "plain dataset message",
			err:        errors.New("bulk dataset has not been loaded"),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetUnavailable,
		},
		{
			name:       "range order message",
			err:        errors.New("end 2020-01-01 precedes start 2020-02-01"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidDateRange,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown error",
			err:        errors.New("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := handler.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, req.URL.Path, problem.Instance)
		})
	}
}

func TestHandleError(t *testing.T) {
	handler := newTestHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/authorities/MISO", nil)

	handler.HandleError(w, req, AuthorityNotFoundError("MISO"))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, TypeAuthorityNotFound, problem["type"])
	assert.Equal(t, "AUTHORITY_NOT_FOUND", problem["error_code"])
}

func TestHandleErrorNilIsNoop(t *testing.T) {
	handler := newTestHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	handler.HandleError(w, req, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandlePanic(t *testing.T) {
	handler := newTestHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/pipeline", nil)

	handler.HandlePanic(w, req, "boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, TypeInternal, problem["type"])
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := newTestHandler()
	mw := RecoveryMiddleware(handler)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	mw(panicking).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNotFoundHandler(t *testing.T) {
	handler := newTestHandler()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/nope", nil)

	handler.NotFound(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSanitizeRequestBody(t *testing.T) {
	body := `{"api_key":"secret-value","from":"2020-01-01"}`
	sanitized := sanitizeRequestBody(body)

	assert.Contains(t, sanitized, "[REDACTED]")
	assert.NotContains(t, sanitized, "secret-value")
	assert.Contains(t, sanitized, "2020-01-01")
}
