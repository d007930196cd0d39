package pipeline

import (
	"sync"
	"time"
)

// RunStatus represents the overall pipeline run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// State represents the complete state of a pipeline run
type State struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Stage states
	Stages map[string]*StageState `json:"stages"`

	// Run context for passing data between stages
	Context map[string]interface{} `json:"context"`

	// Error if the run failed
	Error error `json:"error,omitempty"`
}

// NewState creates a new run state
func NewState(id string) *State {
	return &State{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Stages:    make(map[string]*StageState),
		Context:   make(map[string]interface{}),
	}
}

// Start marks the run as running
func (p *State) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = RunStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the run as completed
func (p *State) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (p *State) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = RunStatusFailed
	p.Error = err
}

// Cancel marks the run as cancelled
func (p *State) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = RunStatusCancelled
}

// GetStage returns the state of a specific stage
func (p *State) GetStage(stageID string) *StageState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Stages[stageID]
}

// SetStage updates the state of a specific stage
func (p *State) SetStage(stageID string, state *StageState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Stages[stageID] = state
}

// GetContext retrieves a value from the run context
func (p *State) GetContext(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Context[key]
	return val, ok
}

// SetContext sets a value in the run context
func (p *State) SetContext(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// Duration returns how long the run has been executing
func (p *State) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}
