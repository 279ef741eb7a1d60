package store

import (
	"fmt"
	"time"
)

// RunConfig holds the configuration of an inference run (checkpoint copy).
type RunConfig struct {
	Method             string `json:"method"` // algorithm label, e.g. "Separable Evolution Strategy"
	Dim                int    `json:"dim"`
	MaxIterations      int    `json:"maxIterations"`
	PopulationSize     int    `json:"populationSize"`
	Seed               uint64 `json:"seed,omitempty"`
	CheckpointInterval int    `json:"checkpointInterval,omitempty"` // checkpoint every N iterations (0 = disabled)
}

// Checkpoint is a saved snapshot of an optimization run.
//
// Only the externally visible state is saved: the best parameters, their
// score, and the iteration count. The algorithm's internal search
// distribution and RNG state are not serialized; a resumed run restarts the
// search around the saved best rather than continuing the exact trajectory.
// The best score never regresses across a resume, which is the property the
// checkpoint exists to protect.
type Checkpoint struct {
	// RunID is the unique identifier of the run.
	RunID string `json:"runId"`

	// BestParams is the lowest-scoring parameter vector found so far.
	BestParams []float64 `json:"bestParams"`

	// BestScore is the score achieved by BestParams.
	BestScore float64 `json:"bestScore"`

	// InitialScore is the best score after the first iteration, kept for
	// improvement tracking.
	InitialScore float64 `json:"initialScore"`

	// Iteration is the completed iteration count at checkpoint time.
	Iteration int `json:"iteration"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the run configuration, used to validate resume
	// compatibility.
	Config RunConfig `json:"config"`
}

// CheckpointInfo is checkpoint metadata without the parameter data, used
// for listing runs without loading parameter vectors.
type CheckpointInfo struct {
	RunID     string    `json:"runId"`
	BestScore float64   `json:"bestScore"`
	Iteration int       `json:"iteration"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Dim       int       `json:"dim"`
}

// NewCheckpoint creates a checkpoint from run state.
func NewCheckpoint(runID string, bestParams []float64, bestScore, initialScore float64, iteration int, config RunConfig) *Checkpoint {
	return &Checkpoint{
		RunID:        runID,
		BestParams:   append([]float64(nil), bestParams...),
		BestScore:    bestScore,
		InitialScore: initialScore,
		Iteration:    iteration,
		Timestamp:    time.Now(),
		Config:       config,
	}
}

// ToInfo converts a full Checkpoint to its metadata.
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		RunID:     c.RunID,
		BestScore: c.BestScore,
		Iteration: c.Iteration,
		Timestamp: c.Timestamp,
		Method:    c.Config.Method,
		Dim:       c.Config.Dim,
	}
}

// Validate checks that the checkpoint carries consistent data.
func (c *Checkpoint) Validate() error {
	if c.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if len(c.BestParams) == 0 {
		return &ValidationError{Field: "BestParams", Reason: "cannot be empty"}
	}
	if c.Iteration < 0 {
		return &ValidationError{Field: "Iteration", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.Method == "" {
		return &ValidationError{Field: "Config.Method", Reason: "cannot be empty"}
	}
	if c.Config.Dim <= 0 {
		return &ValidationError{Field: "Config.Dim", Reason: "must be positive"}
	}
	if c.Config.MaxIterations <= 0 {
		return &ValidationError{Field: "Config.MaxIterations", Reason: "must be positive"}
	}
	if c.Config.PopulationSize <= 0 {
		return &ValidationError{Field: "Config.PopulationSize", Reason: "must be positive"}
	}
	if len(c.BestParams) != c.Config.Dim {
		return &ValidationError{
			Field:  "BestParams",
			Reason: fmt.Sprintf("length mismatch: got %d params for dimension %d", len(c.BestParams), c.Config.Dim),
		}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks whether this checkpoint can seed a run with the given
// config. Method and dimensionality must match.
func (c *Checkpoint) IsCompatible(config RunConfig) error {
	if c.Config.Method != config.Method {
		return &CompatibilityError{
			Field:    "Method",
			Expected: c.Config.Method,
			Actual:   config.Method,
		}
	}
	if c.Config.Dim != config.Dim {
		return &CompatibilityError{
			Field:    "Dim",
			Expected: fmt.Sprintf("%d", c.Config.Dim),
			Actual:   fmt.Sprintf("%d", config.Dim),
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
