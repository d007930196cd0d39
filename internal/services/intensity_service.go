package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"time"

	apierrors "gridpulse/internal/errors"
	"gridpulse/internal/infrastructure"
	"gridpulse/internal/intensity"
)

// JSONFloat marshals NaN as null so hourly gaps survive JSON encoding
type JSONFloat float64

// MarshalJSON renders NaN as null
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// RangeRequest identifies an authority and an inclusive day range
type RangeRequest struct {
	Authority string `json:"authority" validate:"required,authority"`
	From      string `json:"from" validate:"required,iso8601"`
	To        string `json:"to" validate:"required,iso8601"`
}

// GenerationResponse is the hourly generation table for one authority
type GenerationResponse struct {
	Authority  string                `json:"authority"`
	From       string                `json:"from"`
	To         string                `json:"to"`
	Timestamps []time.Time           `json:"timestamps"`
	Fuels      []string              `json:"fuels"`
	Values     [][]JSONFloat         `json:"values"`
	Notes      []intensity.RangeNote `json:"notes,omitempty"`
}

// SeriesResponse is one derived hourly series
type SeriesResponse struct {
	Authority  string      `json:"authority"`
	Name       string      `json:"name"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Timestamps []time.Time `json:"timestamps"`
	Values     []JSONFloat `json:"values"`
	Notes      []intensity.RangeNote `json:"notes,omitempty"`
}

// IntensityService computes generation tables and derived series on demand
type IntensityService struct {
	data      *DataService
	extractor *intensity.Extractor
	metrics   *infrastructure.PipelineMetrics
	logger    *slog.Logger
}

// NewIntensityService creates a new intensity service
func NewIntensityService(data *DataService, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *IntensityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntensityService{
		data:      data,
		extractor: intensity.NewExtractor(logger),
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "intensity_service")),
	}
}

// extract resolves the dataset and builds the generation table for a request
func (s *IntensityService) extract(ctx context.Context, req RangeRequest) (*intensity.GenerationTable, error) {
	dataset, err := s.data.Dataset()
	if err != nil {
		return nil, err
	}

	if !s.data.HasAuthority(req.Authority) {
		return nil, apierrors.AuthorityNotFoundError(req.Authority)
	}

	start := time.Now()
	table, err := s.extractor.ExtractRange(ctx, dataset, req.Authority, req.From, req.To)
	if err != nil {
		// range parse and ordering problems are the caller's fault,
		// malformed source data is ours
		if errors.Is(err, intensity.ErrInvalidRange) {
			return nil, apierrors.InvalidDateRangeError(req.From, req.To)
		}
		return nil, err
	}
	s.metrics.RecordExtraction(ctx, req.Authority, time.Since(start))

	return table, nil
}

// Generation returns the hourly per-fuel generation table
func (s *IntensityService) Generation(ctx context.Context, req RangeRequest) (*GenerationResponse, error) {
	table, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}

	fuels := make([]string, 0, intensity.NumFuels)
	for _, fuel := range intensity.Fuels() {
		fuels = append(fuels, fuel.String())
	}

	values := make([][]JSONFloat, table.Rows())
	for i, row := range table.Values {
		values[i] = make([]JSONFloat, len(row))
		for j, v := range row {
			values[i][j] = JSONFloat(v)
		}
	}

	return &GenerationResponse{
		Authority:  table.Authority,
		From:       req.From,
		To:         req.To,
		Timestamps: table.Index,
		Fuels:      fuels,
		Values:     values,
		Notes:      table.Notes,
	}, nil
}

// CarbonIntensity returns the hourly consumption-weighted intensity series
func (s *IntensityService) CarbonIntensity(ctx context.Context, req RangeRequest) (*SeriesResponse, error) {
	table, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordIntensityRequest(ctx, req.Authority)
	return seriesResponse(req, table, intensity.CarbonIntensity(table)), nil
}

// RenewableShare returns the hourly renewable generation share series
func (s *IntensityService) RenewableShare(ctx context.Context, req RangeRequest) (*SeriesResponse, error) {
	table, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}

	return seriesResponse(req, table, intensity.RenewableShare(table)), nil
}

func seriesResponse(req RangeRequest, table *intensity.GenerationTable, series *intensity.Series) *SeriesResponse {
	values := make([]JSONFloat, series.Len())
	for i, v := range series.Values {
		values[i] = JSONFloat(v)
	}
	return &SeriesResponse{
		Authority:  table.Authority,
		Name:       series.Name,
		From:       req.From,
		To:         req.To,
		Timestamps: series.Index,
		Values:     values,
		Notes:      table.Notes,
	}
}
