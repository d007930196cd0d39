package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gridpulse/internal/config"
	"gridpulse/internal/eba"
	apierrors "gridpulse/internal/errors"
	"gridpulse/internal/infrastructure"
)

// DataService owns the in-memory bulk dataset and report listings
type DataService struct {
	paths   *config.Paths
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics

	mu      sync.RWMutex
	dataset *eba.Dataset
	loaded  time.Time
}

// NewDataService creates a new data service
func NewDataService(paths *config.Paths, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DataService initialized with paths",
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("bulk_file", paths.BulkFile))

	return &DataService{
		paths:   paths,
		logger:  logger,
		metrics: metrics,
	}
}

// LoadFromDisk parses the extracted bulk file and replaces the held dataset
func (ds *DataService) LoadFromDisk(ctx context.Context) error {
	dataset, err := eba.Load(ds.paths.BulkFile, infrastructure.LoggerWithContext(ctx))
	if err != nil {
		return fmt.Errorf("load bulk dataset: %w", err)
	}

	ds.mu.Lock()
	ds.dataset = dataset
	ds.loaded = time.Now()
	ds.mu.Unlock()

	ds.metrics.RecordDatasetLoad(ctx)
	ds.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("records", dataset.Len()),
		slog.Int("authorities", len(dataset.Authorities)))
	return nil
}

// Dataset returns the held dataset, or DATASET_UNAVAILABLE if none is loaded
func (ds *DataService) Dataset() (*eba.Dataset, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.dataset == nil {
		return nil, apierrors.ErrDatasetUnavailable
	}
	return ds.dataset, nil
}

// Loaded reports whether a dataset is held and when it was loaded
func (ds *DataService) Loaded() (bool, time.Time) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.dataset != nil, ds.loaded
}

// Authorities returns the catalog of balancing authority codes
func (ds *DataService) Authorities(ctx context.Context) ([]string, error) {
	dataset, err := ds.Dataset()
	if err != nil {
		return nil, err
	}
	return dataset.Authorities, nil
}

// SubSeries returns the catalog of reference authority sub-series codes
func (ds *DataService) SubSeries(ctx context.Context) ([]string, error) {
	dataset, err := ds.Dataset()
	if err != nil {
		return nil, err
	}
	return dataset.SubSeries, nil
}

// HasAuthority reports whether the given code appears in the catalog
func (ds *DataService) HasAuthority(code string) bool {
	dataset, err := ds.Dataset()
	if err != nil {
		return false
	}
	for _, ba := range dataset.Authorities {
		if ba == code {
			return true
		}
	}
	return false
}

// ReportInfo describes one generated report file
type ReportInfo struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// GetReports returns the generated CSV reports, newest first
func (ds *DataService) GetReports(ctx context.Context) ([]ReportInfo, error) {
	reportsDir := ds.paths.ReportsDir

	ds.logger.DebugContext(ctx, "scanning reports directory",
		slog.String("reports_dir", reportsDir))

	var reports []ReportInfo
	err := filepath.Walk(reportsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			ds.logger.DebugContext(ctx, "error accessing path",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(info.Name())) != ".csv" {
			return nil
		}

		reports = append(reports, ReportInfo{
			Name:     info.Name(),
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan reports directory: %w", err)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Modified.After(reports[j].Modified)
	})
	return reports, nil
}
