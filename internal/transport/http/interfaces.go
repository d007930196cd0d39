package http

import (
	"context"
	"time"

	"gridpulse/internal/pipeline"
	"gridpulse/internal/services"
)

// DataServiceInterface defines the catalog and report operations handlers
// need. Satisfied by *services.DataService; tests substitute fakes.
type DataServiceInterface interface {
	Authorities(ctx context.Context) ([]string, error)
	SubSeries(ctx context.Context) ([]string, error)
	GetReports(ctx context.Context) ([]services.ReportInfo, error)
	Loaded() (bool, time.Time)
}

// IntensityServiceInterface defines the range-query operations.
// Satisfied by *services.IntensityService.
type IntensityServiceInterface interface {
	Generation(ctx context.Context, req services.RangeRequest) (*services.GenerationResponse, error)
	CarbonIntensity(ctx context.Context, req services.RangeRequest) (*services.SeriesResponse, error)
	RenewableShare(ctx context.Context, req services.RangeRequest) (*services.SeriesResponse, error)
}

// RequestValidator checks request structs against their declared
// validation tags. Satisfied by *middleware.ValidationMiddleware, which
// registers the iso8601 and authority validators.
type RequestValidator interface {
	ValidateStruct(v interface{}) error
}

// PipelineRunner defines the pipeline execution surface the run handler
// needs. Satisfied by *pipeline.Manager.
type PipelineRunner interface {
	Execute(ctx context.Context, req pipeline.RunRequest) (*pipeline.RunResponse, error)
	GetRun(id string) (*pipeline.RunResponse, bool)
}
