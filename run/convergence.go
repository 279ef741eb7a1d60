package run

import (
	"log/slog"
	"math"
)

// ConvergenceConfig defines parameters for detecting run convergence.
type ConvergenceConfig struct {
	// Enabled controls whether convergence detection is active.
	Enabled bool

	// Patience is the number of iterations with no significant
	// improvement before the run stops.
	Patience int

	// Threshold is the minimum relative improvement required to count as
	// progress: (oldScore - newScore) / |oldScore|.
	Threshold float64
}

// DefaultConvergenceConfig returns sensible defaults for convergence
// detection.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled:   true,
		Patience:  10,
		Threshold: 0.001,
	}
}

// DisabledConvergenceConfig returns a config with convergence detection
// disabled.
func DisabledConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled: false,
	}
}

// ConvergenceTracker tracks score history and detects when a run has
// stalled.
type ConvergenceTracker struct {
	config          ConvergenceConfig
	scoreHistory    []float64
	bestScore       float64
	lastSignificant float64
	staleCount      int
}

// NewConvergenceTracker creates a tracker with the given config.
func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	return &ConvergenceTracker{
		config:          config,
		bestScore:       math.Inf(1),
		lastSignificant: math.Inf(1),
	}
}

// Update records a new score and returns true if convergence is detected.
func (c *ConvergenceTracker) Update(score float64) bool {
	if !c.config.Enabled {
		return false
	}

	c.scoreHistory = append(c.scoreHistory, score)
	if score < c.bestScore {
		c.bestScore = score
	}

	if len(c.scoreHistory) == 1 {
		c.lastSignificant = score
		return false
	}

	relativeImprovement := (c.lastSignificant - score) / math.Abs(c.lastSignificant)
	if relativeImprovement >= c.config.Threshold {
		c.lastSignificant = score
		c.staleCount = 0
		slog.Debug("Score improvement detected",
			"score", score,
			"relative_improvement", relativeImprovement,
		)
		return false
	}

	c.staleCount++
	slog.Debug("No significant score improvement",
		"score", score,
		"last_significant", c.lastSignificant,
		"stale_count", c.staleCount,
		"patience", c.config.Patience,
	)
	if c.staleCount >= c.config.Patience {
		slog.Info("Convergence detected - stopping early",
			"stale_count", c.staleCount,
			"patience", c.config.Patience,
			"best_score", c.bestScore,
		)
		return true
	}
	return false
}

// BestScore returns the best score seen so far.
func (c *ConvergenceTracker) BestScore() float64 {
	return c.bestScore
}

// History returns a copy of the full score history.
func (c *ConvergenceTracker) History() []float64 {
	return append([]float64{}, c.scoreHistory...)
}

// StaleCount returns the current number of iterations without improvement.
func (c *ConvergenceTracker) StaleCount() int {
	return c.staleCount
}

// Reset clears the tracker's state.
func (c *ConvergenceTracker) Reset() {
	c.scoreHistory = nil
	c.bestScore = math.Inf(1)
	c.lastSignificant = math.Inf(1)
	c.staleCount = 0
}
