// Package asktell defines the control contract between inference algorithms
// and the code that evaluates their candidate parameter vectors.
//
// An algorithm proposes a batch of candidates with Ask, the caller evaluates
// them wherever it likes (inline, worker pool, cluster) and hands the scores
// back with Tell. The algorithm never calls the model itself, so evaluation
// placement is entirely the caller's decision. Each algorithm instance holds
// exactly one in-flight batch and is not safe for concurrent Ask/Tell calls
// without external locking.
package asktell

// Sampler is implemented by algorithms that accumulate accepted parameter
// vectors, such as rejection samplers. Discrepancy values passed to Tell are
// lower-is-better.
type Sampler interface {
	// Name returns a fixed identifying label for the algorithm.
	Name() string

	// Ask proposes n candidate parameter vectors and transitions the
	// algorithm to the awaiting-tell phase.
	Ask(n int) ([][]float64, error)

	// Tell consumes one discrepancy value per candidate of the pending
	// batch and returns the accepted vectors. A nil result means every
	// candidate was rejected and the caller should ask again.
	Tell(fx []float64) ([][]float64, error)
}

// Optimizer is implemented by algorithms that track a running best candidate,
// such as population-based stochastic optimizers. Scores passed to Tell are
// lower-is-better.
type Optimizer interface {
	// Name returns a fixed identifying label for the algorithm.
	Name() string

	// Ask proposes a batch of candidate parameter vectors. The requested
	// size n is advisory: population-based algorithms use their internal
	// population size instead. Pass 0 to let the algorithm choose.
	Ask(n int) ([][]float64, error)

	// Tell consumes one score per candidate of the pending batch, in batch
	// order, and updates the algorithm's internal state.
	Tell(fx []float64) error

	// Best returns the lowest-scoring candidate seen so far and its score.
	Best() ([]float64, float64)
}
