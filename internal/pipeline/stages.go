package pipeline

import (
	"context"
	"fmt"
	"time"

	"gridpulse/internal/config"
	"gridpulse/internal/eba"
	"gridpulse/internal/exporter"
	"gridpulse/internal/fetch"
	"gridpulse/internal/infrastructure"
	"gridpulse/internal/intensity"
)

// FetchStage downloads and extracts the bulk archive
type FetchStage struct {
	BaseStage
	downloader *fetch.Downloader
	bulkURL    string
	paths      *config.Paths
}

// NewFetchStage creates the bulk download stage
func NewFetchStage(downloader *fetch.Downloader, bulkURL string, paths *config.Paths) *FetchStage {
	return &FetchStage{
		BaseStage:  NewBaseStage(StageIDFetch, StageNameFetch),
		downloader: downloader,
		bulkURL:    bulkURL,
		paths:      paths,
	}
}

// Execute downloads the archive into the data directory
func (s *FetchStage) Execute(ctx context.Context, state *State) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultFetchTimeout)
	defer cancel()

	url := s.bulkURL
	if v, ok := state.GetContext(ContextKeyBulkURL); ok {
		if override, ok := v.(string); ok && override != "" {
			url = override
		}
	}

	force := false
	if v, ok := state.GetContext(ContextKeyForce); ok {
		force, _ = v.(bool)
	}

	if err := s.downloader.Fetch(ctx, url, s.paths.EBADir, force); err != nil {
		return fmt.Errorf("fetch bulk archive: %w", err)
	}
	return nil
}

// LoadStage parses the extracted bulk file into a dataset
type LoadStage struct {
	BaseStage
	paths   *config.Paths
	metrics *infrastructure.PipelineMetrics
}

// NewLoadStage creates the dataset load stage
func NewLoadStage(paths *config.Paths, metrics *infrastructure.PipelineMetrics) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad),
		paths:     paths,
		metrics:   metrics,
	}
}

// Execute loads the bulk file and stores the dataset in the run context
func (s *LoadStage) Execute(ctx context.Context, state *State) error {
	ds, err := eba.Load(s.paths.BulkFile, infrastructure.LoggerWithContext(ctx))
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	state.SetContext(ContextKeyDataset, ds)
	s.metrics.RecordDatasetLoad(ctx)
	return nil
}

// ReportStage extracts the requested range and writes CSV reports
type ReportStage struct {
	BaseStage
	extractor *intensity.Extractor
	reports   *exporter.ReportExporter
	metrics   *infrastructure.PipelineMetrics
}

// NewReportStage creates the report generation stage
func NewReportStage(extractor *intensity.Extractor, reports *exporter.ReportExporter, metrics *infrastructure.PipelineMetrics) *ReportStage {
	return &ReportStage{
		BaseStage: NewBaseStage(StageIDReport, StageNameReport),
		extractor: extractor,
		reports:   reports,
		metrics:   metrics,
	}
}

// Validate requires an authority and a date range in the run context
func (s *ReportStage) Validate(state *State) error {
	for _, key := range []string{ContextKeyAuthority, ContextKeyFromDate, ContextKeyToDate} {
		v, ok := state.GetContext(key)
		if !ok {
			return fmt.Errorf("missing %s", key)
		}
		str, ok := v.(string)
		if !ok || str == "" {
			return fmt.Errorf("missing %s", key)
		}
	}
	return nil
}

// Execute extracts generation, derives series, and writes the reports
func (s *ReportStage) Execute(ctx context.Context, state *State) error {
	v, ok := state.GetContext(ContextKeyDataset)
	if !ok {
		return fmt.Errorf("dataset has not been loaded")
	}
	ds, ok := v.(*eba.Dataset)
	if !ok {
		return fmt.Errorf("dataset has not been loaded")
	}

	authority, _ := stateString(state, ContextKeyAuthority)
	fromDay, _ := stateString(state, ContextKeyFromDate)
	toDay, _ := stateString(state, ContextKeyToDate)

	start := time.Now()
	table, err := s.extractor.ExtractRange(ctx, ds, authority, fromDay, toDay)
	if err != nil {
		return fmt.Errorf("extract range: %w", err)
	}
	s.metrics.RecordExtraction(ctx, authority, time.Since(start))

	carbon := intensity.CarbonIntensity(table)
	renewable := intensity.RenewableShare(table)

	files := []string{
		exporter.GenerationFileName(authority, fromDay, toDay),
		exporter.IntensityFileName(authority, fromDay, toDay),
		fmt.Sprintf("renewable_share_%s_%s_%s.csv", authority, fromDay, toDay),
	}

	if err := s.reports.ExportGenerationTable(table, files[0]); err != nil {
		return err
	}
	if err := s.reports.ExportSeries(carbon, files[1]); err != nil {
		return err
	}
	if err := s.reports.ExportSeries(renewable, files[2]); err != nil {
		return err
	}

	state.SetContext(ContextKeyReports, files)
	return nil
}

func stateString(state *State, key string) (string, bool) {
	v, ok := state.GetContext(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}
