package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"gridpulse/internal/config"
	"gridpulse/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	data      *DataService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(data *DataService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   config.AppVersion,
		data:      data,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns the overall service health
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	dataset := hs.checkDatasetHealth()

	status := "healthy"
	if dataset.Status != "healthy" {
		status = "degraded"
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
		},
		Services: map[string]interface{}{
			"dataset": dataset,
		},
	}
}

// LivenessCheck reports that the process is running
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the service can answer data queries
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	dataset := hs.checkDatasetHealth()

	status := "ready"
	if dataset.Status != "healthy" {
		status = "not_ready"
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"dataset": dataset,
		},
	}
}

// Version returns build information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"app":         config.AppName,
		"version":     hs.version,
		"api_version": info.APIVersion,
		"build_time":  info.BuildTime,
		"git_commit":  info.GitCommit,
		"go_version":  info.GoVersion,
	}
}

func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	loaded, at := hs.data.Loaded()
	if !loaded {
		return ServiceHealth{
			Status:  "unavailable",
			Message: "bulk dataset has not been loaded",
		}
	}
	return ServiceHealth{
		Status:  "healthy",
		Message: "loaded at " + at.UTC().Format(time.RFC3339),
	}
}
