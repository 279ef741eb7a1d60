// Package run drives ask/tell algorithms against an evaluator. It owns the
// loop the algorithms deliberately do not: dispatching batches to
// evaluation, gathering ordered results, and deciding when to stop.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/seriesfit/asktell"
	"github.com/cwbudde/seriesfit/internal/store"
)

// DefaultMaxIterations bounds a run when the caller does not set a budget.
const DefaultMaxIterations = 200

// Evaluator maps a candidate parameter vector to a scalar lower-is-better
// score. Evaluator failures abort the run and surface unchanged.
type Evaluator func(params []float64) (float64, error)

// Result holds the outcome of a driven run.
type Result struct {
	RunID        string
	BestParams   []float64
	BestScore    float64
	InitialScore float64
	Iterations   int
	Converged    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxIterations sets the iteration budget.
func WithMaxIterations(n int) Option {
	return func(c *Controller) { c.maxIterations = n }
}

// WithParallel sets the number of concurrent evaluator goroutines per
// batch. The default of 1 evaluates sequentially.
func WithParallel(n int) Option {
	return func(c *Controller) { c.parallel = n }
}

// WithConvergence replaces the default convergence detection config.
func WithConvergence(cfg ConvergenceConfig) Option {
	return func(c *Controller) { c.conv = cfg }
}

// WithPersistence enables checkpoints and a score trace under baseDir,
// checkpointing every interval iterations (0 keeps only the final
// checkpoint).
func WithPersistence(baseDir string, interval int) Option {
	return func(c *Controller) {
		c.baseDir = baseDir
		c.checkpointInterval = interval
	}
}

// WithRunID overrides the generated run identifier, e.g. to resume into an
// existing run directory.
func WithRunID(id string) Option {
	return func(c *Controller) { c.runID = id }
}

// Controller drives an optimizer's ask/tell loop. Each cycle asks for a
// batch, evaluates every candidate (optionally in parallel, always
// gathering results back into batch order) and tells the scores. The
// controller stops on the iteration budget, on convergence, or when the
// context is cancelled; the optimizer itself never terminates.
type Controller struct {
	opt  asktell.Optimizer
	eval Evaluator

	maxIterations      int
	parallel           int
	conv               ConvergenceConfig
	baseDir            string
	checkpointInterval int
	runID              string
}

// NewController creates a controller for the given optimizer and evaluator.
func NewController(o asktell.Optimizer, eval Evaluator, opts ...Option) (*Controller, error) {
	if o == nil {
		return nil, fmt.Errorf("run: optimizer must not be nil")
	}
	if eval == nil {
		return nil, fmt.Errorf("run: evaluator must not be nil")
	}

	c := &Controller{
		opt:           o,
		eval:          eval,
		maxIterations: DefaultMaxIterations,
		parallel:      1,
		conv:          DefaultConvergenceConfig(),
		runID:         uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.maxIterations < 1 {
		return nil, fmt.Errorf("run: max iterations must be at least 1, got %d", c.maxIterations)
	}
	if c.parallel < 1 {
		return nil, fmt.Errorf("run: parallelism must be at least 1, got %d", c.parallel)
	}
	return c, nil
}

// RunID returns the identifier artifacts of this run are stored under.
func (c *Controller) RunID() string {
	return c.runID
}

// Run executes the ask/tell loop until a stopping criterion fires and
// returns the best result found.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	var (
		st    store.Store
		trace *store.TraceWriter
	)
	if c.baseDir != "" {
		fs, err := store.NewFSStore(c.baseDir)
		if err != nil {
			return nil, fmt.Errorf("run: opening store: %w", err)
		}
		st = fs
		trace, err = store.NewTraceWriter(c.baseDir, c.runID, false)
		if err != nil {
			return nil, fmt.Errorf("run: opening trace: %w", err)
		}
		defer trace.Close()
	}

	slog.Info("Starting run",
		"run_id", c.runID,
		"method", c.opt.Name(),
		"max_iterations", c.maxIterations,
		"parallel", c.parallel,
	)

	tracker := NewConvergenceTracker(c.conv)
	start := time.Now()
	initialScore := math.Inf(1)
	converged := false
	iterations := 0
	popSize := 0

	for iterations < c.maxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		xs, err := c.opt.Ask(0)
		if err != nil {
			return nil, err
		}
		popSize = len(xs)

		fx := make([]float64, len(xs))
		if err := c.evaluateBatch(ctx, xs, fx); err != nil {
			return nil, err
		}

		if err := c.opt.Tell(fx); err != nil {
			return nil, err
		}
		iterations++

		best, score := c.opt.Best()
		if iterations == 1 {
			initialScore = score
		}

		if trace != nil {
			if err := trace.Write(store.TraceEntry{Iteration: iterations, Score: score, Timestamp: time.Now()}); err != nil {
				slog.Warn("Failed to write trace entry", "run_id", c.runID, "error", err)
			}
		}
		if st != nil && c.checkpointInterval > 0 && iterations%c.checkpointInterval == 0 {
			c.saveCheckpoint(st, best, score, initialScore, iterations, popSize)
		}

		if tracker.Update(score) {
			converged = true
			break
		}
	}

	best, score := c.opt.Best()
	if st != nil {
		c.saveCheckpoint(st, best, score, initialScore, iterations, popSize)
	}
	if trace != nil {
		if err := trace.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "run_id", c.runID, "error", err)
		}
	}

	slog.Info("Run complete",
		"run_id", c.runID,
		"elapsed", time.Since(start),
		"iterations", iterations,
		"initial_score", initialScore,
		"best_score", score,
		"converged", converged,
	)

	return &Result{
		RunID:        c.runID,
		BestParams:   best,
		BestScore:    score,
		InitialScore: initialScore,
		Iterations:   iterations,
		Converged:    converged,
	}, nil
}

// evaluateBatch fills fx with one score per candidate, preserving batch
// order regardless of evaluation order.
func (c *Controller) evaluateBatch(ctx context.Context, xs [][]float64, fx []float64) error {
	if c.parallel == 1 {
		for i, x := range xs {
			v, err := c.eval(x)
			if err != nil {
				return fmt.Errorf("run: evaluating candidate %d: %w", i, err)
			}
			fx[i] = v
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)
	for i, x := range xs {
		g.Go(func() error {
			v, err := c.eval(x)
			if err != nil {
				return fmt.Errorf("run: evaluating candidate %d: %w", i, err)
			}
			fx[i] = v
			return nil
		})
	}
	return g.Wait()
}

func (c *Controller) saveCheckpoint(st store.Store, best []float64, score, initialScore float64, iteration, popSize int) {
	cp := store.NewCheckpoint(c.runID, best, score, initialScore, iteration, store.RunConfig{
		Method:             c.opt.Name(),
		Dim:                len(best),
		MaxIterations:      c.maxIterations,
		PopulationSize:     popSize,
		CheckpointInterval: c.checkpointInterval,
	})
	if err := st.SaveCheckpoint(c.runID, cp); err != nil {
		slog.Warn("Failed to save checkpoint", "run_id", c.runID, "error", err)
	}
}
