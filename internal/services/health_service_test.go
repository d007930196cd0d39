package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckDegradedWithoutDataset(t *testing.T) {
	hs := NewHealthService(NewDataService(testPaths(t), nil, nil), nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.NotEmpty(t, status.Version)
	assert.NotNil(t, status.Runtime["go_version"])

	dataset, ok := status.Services["dataset"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "unavailable", dataset.Status)
}

func TestHealthCheckHealthyWithDataset(t *testing.T) {
	hs := NewHealthService(loadedDataService(t), nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "healthy", status.Status)
}

func TestReadinessCheck(t *testing.T) {
	ds := NewDataService(testPaths(t), nil, nil)
	hs := NewHealthService(ds, nil)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
}

func TestLivenessCheck(t *testing.T) {
	hs := NewHealthService(NewDataService(testPaths(t), nil, nil), nil)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.False(t, status.Timestamp.IsZero())
}

func TestVersion(t *testing.T) {
	hs := NewHealthService(NewDataService(testPaths(t), nil, nil), nil)

	info := hs.Version()
	assert.Equal(t, "GridPulse", info["app"])
	assert.NotEmpty(t, info["version"])
}
