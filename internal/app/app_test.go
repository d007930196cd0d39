package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpulse/internal/config"
	apierrors "gridpulse/internal/errors"
	"gridpulse/internal/infrastructure"
)

// newTestApplication wires an Application by hand so tests control the
// paths and skip environment loading.
func newTestApplication(t *testing.T) *Application {
	t.Helper()

	base := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		EBADir:        filepath.Join(base, "data", "eba"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
		LogsDir:       filepath.Join(base, "logs"),
		BulkFile:      filepath.Join(base, "data", "eba", "EBA.txt"),
	}
	require.NoError(t, paths.EnsureDirectories())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 5 * time.Second
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Security.EnableCORS = true
	cfg.Security.AllowedOrigins = []string{"http://localhost:8080"}
	cfg.Fetch.BulkURL = "http://127.0.0.1/EBA.zip"
	cfg.Fetch.Timeout = time.Second

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		errorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	require.NoError(t, a.initializeServices())
	require.NoError(t, a.setupRouter())
	return a
}

func TestRouterHealthEndpoints(t *testing.T) {
	a := newTestApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// nothing loaded, so readiness reports 503
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	a := newTestApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterUnknownRouteProblem(t *testing.T) {
	a := newTestApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestRouterQueryWithoutDataset(t *testing.T) {
	a := newTestApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/series/CISO/intensity?from=2020-01-01&to=2020-01-02", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouterSecurityHeaders(t *testing.T) {
	a := newTestApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/version", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDataServiceWiredIntoRouter(t *testing.T) {
	a := newTestApplication(t)

	// services share one DataService instance
	loaded, _ := a.DataService.Loaded()
	assert.False(t, loaded)
	assert.NotNil(t, a.IntensityService)
	assert.NotNil(t, a.HealthService)
	assert.NotNil(t, a.PipelineManager)

	_, err := a.DataService.Authorities(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrDatasetUnavailable)
}
