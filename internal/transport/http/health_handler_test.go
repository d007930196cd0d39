package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpulse/internal/config"
	"gridpulse/internal/services"
)

func newHealthHandler(t *testing.T) *HealthHandler {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{
		DataDir:    base,
		ReportsDir: base,
		BulkFile:   base + "/EBA.txt",
	}
	data := services.NewDataService(paths, nil, testLogger())
	return NewHealthHandler(services.NewHealthService(data, testLogger()), testLogger())
}

func TestHealthCheckEndpoint(t *testing.T) {
	h := newHealthHandler(t)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.NotEmpty(t, status.Version)
}

func TestReadinessEndpointNotReady(t *testing.T) {
	h := newHealthHandler(t)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestLivenessEndpoint(t *testing.T) {
	h := newHealthHandler(t)

	rec := httptest.NewRecorder()
	h.LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestVersionEndpoint(t *testing.T) {
	h := newHealthHandler(t)

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GridPulse")
}
