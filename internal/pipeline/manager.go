package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Manager orchestrates sequential pipeline execution
type Manager struct {
	stages []Stage
	logger *slog.Logger
	retry  RetryConfig

	// Active runs
	mu   sync.RWMutex
	runs map[string]*State
}

// NewManager creates a new pipeline manager
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger: logger.With(slog.String("component", "pipeline")),
		retry:  NewRetryConfig(),
		runs:   make(map[string]*State),
	}
}

// RegisterStage appends a stage to the execution order
func (m *Manager) RegisterStage(stage Stage) {
	m.stages = append(m.stages, stage)
}

// SetRetryConfig overrides the default retry configuration
func (m *Manager) SetRetryConfig(cfg RetryConfig) {
	m.retry = cfg
}

// GetRun returns a snapshot of an active run
func (m *Manager) GetRun(id string) (*RunResponse, bool) {
	m.mu.RLock()
	state, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return m.createResponse(state), true
}

// Execute runs the registered stages in order with the given request
func (m *Manager) Execute(ctx context.Context, req RunRequest) (*RunResponse, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	state := NewState(req.ID)
	if req.FromDate != "" {
		state.SetContext(ContextKeyFromDate, req.FromDate)
	}
	if req.ToDate != "" {
		state.SetContext(ContextKeyToDate, req.ToDate)
	}
	if req.Authority != "" {
		state.SetContext(ContextKeyAuthority, req.Authority)
	}
	state.SetContext(ContextKeyForce, req.Force)

	m.storeRun(state)
	defer m.removeRun(req.ID)

	tracer := otel.Tracer("gridpulse.pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.execute",
		trace.WithAttributes(attribute.String("run_id", req.ID)))
	defer span.End()

	state.Start()
	m.logger.InfoContext(ctx, "pipeline started",
		slog.String("run_id", req.ID),
		slog.Int("stages", len(m.stages)))

	for _, stage := range m.stages {
		stageState := NewStageState(stage.ID(), stage.Name())
		state.SetStage(stage.ID(), stageState)

		if err := ctx.Err(); err != nil {
			stageState.Skip("run cancelled")
			state.Cancel()
			return m.createResponse(state), err
		}

		if err := stage.Validate(state); err != nil {
			err = fmt.Errorf("validate stage %s: %w", stage.ID(), err)
			stageState.Fail(err)
			state.Fail(err)
			m.logger.ErrorContext(ctx, "stage validation failed",
				slog.String("run_id", req.ID),
				slog.String("stage", stage.ID()),
				slog.String("error", err.Error()))
			return m.createResponse(state), err
		}

		if err := m.executeStage(ctx, stage, stageState, state); err != nil {
			state.Fail(err)
			return m.createResponse(state), err
		}
	}

	state.Complete()
	m.logger.InfoContext(ctx, "pipeline completed",
		slog.String("run_id", req.ID),
		slog.Duration("duration", state.Duration()))

	return m.createResponse(state), nil
}

// executeStage runs one stage with retry and backoff
func (m *Manager) executeStage(ctx context.Context, stage Stage, stageState *StageState, state *State) error {
	tracer := otel.Tracer("gridpulse.pipeline")
	ctx, span := tracer.Start(ctx, fmt.Sprintf("stage.%s", stage.ID()),
		trace.WithAttributes(attribute.String("stage_id", stage.ID())))
	defer span.End()

	stageState.Start()
	m.logger.InfoContext(ctx, "stage started",
		slog.String("run_id", state.ID),
		slog.String("stage", stage.ID()))

	var err error
	delay := m.retry.InitialDelay
	for attempt := 1; attempt <= m.retry.MaxAttempts; attempt++ {
		err = stage.Execute(ctx, state)
		if err == nil {
			break
		}

		m.logger.WarnContext(ctx, "stage attempt failed",
			slog.String("run_id", state.ID),
			slog.String("stage", stage.ID()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if attempt == m.retry.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			stageState.Fail(err)
			return err
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * m.retry.Multiplier)
		if delay > m.retry.MaxDelay {
			delay = m.retry.MaxDelay
		}
	}

	if err != nil {
		err = fmt.Errorf("stage %s: %w", stage.ID(), err)
		stageState.Fail(err)
		m.logger.ErrorContext(ctx, "stage failed",
			slog.String("run_id", state.ID),
			slog.String("stage", stage.ID()),
			slog.String("error", err.Error()))
		return err
	}

	stageState.Complete()
	m.logger.InfoContext(ctx, "stage completed",
		slog.String("run_id", state.ID),
		slog.String("stage", stage.ID()),
		slog.Duration("duration", stageState.Duration()))

	return nil
}

// createResponse builds a locked snapshot of a run, decoupled from the
// live state so marshalling never races with an executing stage
func (m *Manager) createResponse(state *State) *RunResponse {
	state.mu.RLock()
	defer state.mu.RUnlock()

	stages := make(map[string]*StageState, len(state.Stages))
	for id, stage := range state.Stages {
		stages[id] = stage.Snapshot()
	}

	duration := time.Since(state.StartTime)
	if state.EndTime != nil {
		duration = state.EndTime.Sub(state.StartTime)
	}

	resp := &RunResponse{
		ID:       state.ID,
		Status:   state.Status,
		Duration: duration,
		Stages:   stages,
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}

func (m *Manager) storeRun(state *State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[state.ID] = state
}

func (m *Manager) removeRun(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, id)
}
