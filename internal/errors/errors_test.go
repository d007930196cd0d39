package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "simple message",
			apiError: &APIError{
				StatusCode: http.StatusBadRequest,
				ErrorCode:  "INVALID_REQUEST",
				Message:    "Invalid request format",
			},
			want: "Invalid request format",
		},
		{
			name: "empty message",
			apiError: &APIError{
				StatusCode: http.StatusInternalServerError,
				ErrorCode:  "INTERNAL_ERROR",
				Message:    "",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.apiError.Error()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
	assert.Equal(t, "Invalid request format", err.Message)
	assert.Nil(t, err.Details)
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusNotFound, "AUTHORITY_NOT_FOUND", "balancing authority BPAT not found", "BPAT")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "BPAT", err.Details)
}

func TestAuthorityNotFoundError(t *testing.T) {
	err := AuthorityNotFoundError("MISO")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "AUTHORITY_NOT_FOUND", err.ErrorCode)
	assert.Contains(t, err.Message, "MISO")
	assert.Equal(t, "MISO", err.Details)
}

func TestInvalidDateRangeError(t *testing.T) {
	err := InvalidDateRangeError("2020-02-01", "2020-01-01")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_DATE_RANGE", err.ErrorCode)

	details, ok := err.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "2020-02-01", details["from"])
	assert.Equal(t, "2020-01-01", details["to"])
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("from", "must be a YYYY-MM-DD date")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "from", details.Field)
	assert.Equal(t, "must be a YYYY-MM-DD date", details.Message)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrDatasetUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "DATASET_UNAVAILABLE", resp.Error.ErrorCode)
}

func TestAppError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := assert.AnError
		err := NewParsingError("decode series line", cause)
		assert.Contains(t, err.Error(), "PARSING")
		assert.Contains(t, err.Error(), "decode series line")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("without cause", func(t *testing.T) {
		err := NewNotFoundError("series EBA.CISO-ALL.NG.WND.H")
		assert.Equal(t, "[NOT_FOUND] series EBA.CISO-ALL.NG.WND.H not found", err.Error())
	})

	t.Run("with context", func(t *testing.T) {
		err := NewNetworkError("download bulk archive", nil).
			WithContext("url", "https://api.eia.gov/bulk/EBA.zip")
		assert.Equal(t, "https://api.eia.gov/bulk/EBA.zip", err.Context["url"])
	})
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeAuthorityNotFound,
		"Resource Not Found",
		"balancing authority MISO not found",
		"/api/v1/authorities/MISO",
	).WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, TypeAuthorityNotFound, decoded["type"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "balancing authority MISO not found", decoded["detail"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
}

func TestProblemDetailsOmitsEmptyFields(t *testing.T) {
	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", "", "")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	_, hasDetail := decoded["detail"]
	_, hasInstance := decoded["instance"]
	assert.False(t, hasDetail)
	assert.False(t, hasInstance)
}
