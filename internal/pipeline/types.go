package pipeline

import (
	"time"
)

// Stage identifiers
const (
	StageIDFetch  = "fetch"
	StageIDLoad   = "load"
	StageIDReport = "report"
)

// Stage names
const (
	StageNameFetch  = "Bulk Download"
	StageNameLoad   = "Dataset Load"
	StageNameReport = "Report Generation"
)

// Context keys for run state
const (
	ContextKeyFromDate  = "from_date"
	ContextKeyToDate    = "to_date"
	ContextKeyAuthority = "authority"
	ContextKeyForce     = "force"
	ContextKeyDataset   = "dataset"
	ContextKeyBulkURL   = "bulk_url"
	ContextKeyReports   = "report_files"
)

// Default timeouts
const (
	DefaultStageTimeout  = 30 * time.Minute
	DefaultFetchTimeout  = 60 * time.Minute
	DefaultLoadTimeout   = 15 * time.Minute
	DefaultReportTimeout = 5 * time.Minute
)

// RetryConfig defines retry behavior for stages
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// NewRetryConfig returns the default retry configuration
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// RunRequest represents a request to execute the pipeline
type RunRequest struct {
	ID        string `json:"id"`
	Authority string `json:"authority,omitempty"`
	FromDate  string `json:"from_date,omitempty"`
	ToDate    string `json:"to_date,omitempty"`
	Force     bool   `json:"force,omitempty"`
}

// RunResponse represents the response from a pipeline execution
type RunResponse struct {
	ID       string                 `json:"id"`
	Status   RunStatus              `json:"status"`
	Duration time.Duration          `json:"duration"`
	Stages   map[string]*StageState `json:"stages"`
	Error    string                 `json:"error,omitempty"`
}
