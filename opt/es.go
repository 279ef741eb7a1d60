// Package opt implements population-based stochastic optimizers driven
// through the ask/tell protocol.
package opt

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/seriesfit/asktell"
	"github.com/cwbudde/seriesfit/boundary"
)

// boundedResampleLimit caps how often an out-of-bounds candidate is redrawn
// before being clamped into the admissible region.
const boundedResampleLimit = 100

// Option configures an ES instance.
type Option func(*ES)

// WithBoundaries restricts candidates to the given admissible region.
func WithBoundaries(b *boundary.Rectangular) Option {
	return func(e *ES) { e.bounds = b }
}

// WithPopulationSize overrides the default population size 4 + floor(3 ln d).
func WithPopulationSize(n int) Option {
	return func(e *ES) { e.popSize = n }
}

// WithSeed seeds the internal random source for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(e *ES) { e.src = rand.NewPCG(seed, seed) }
}

// ES is a separable evolution strategy. Candidates are drawn from a search
// distribution with one mean and one step size per dimension; each Tell
// recombines the top-ranked half of the batch into the next mean and adapts
// the step sizes multiplicatively at a fixed learning rate.
//
// Scores passed to Tell are lower-is-better. The optimizer never terminates
// on its own: the caller decides when to stop asking and reads Best between
// cycles.
type ES struct {
	dim      int
	mean     []float64
	sigma    []float64
	bounds   *boundary.Rectangular
	popSize  int
	src      rand.Source
	norm     distuv.Normal
	mu       int
	weights  []float64
	etaSigma float64

	seq      asktell.Sequencer
	pendingX [][]float64
	pendingZ [][]float64

	best      []float64
	bestScore float64
	iteration int
}

var _ asktell.Optimizer = (*ES)(nil)

// NewES creates an evolution strategy starting its search distribution at
// mean x0 with per-dimension spread sigma0.
func NewES(x0, sigma0 []float64, opts ...Option) (*ES, error) {
	if len(x0) == 0 {
		return nil, &asktell.ValidationError{Op: "opt: new es", Reason: "x0 must not be empty"}
	}
	if len(sigma0) != len(x0) {
		return nil, &asktell.ValidationError{Op: "opt: new es", Reason: fmt.Sprintf("sigma0 has %d entries but x0 has %d", len(sigma0), len(x0))}
	}
	for i, s := range sigma0 {
		if s <= 0 {
			return nil, &asktell.ValidationError{Op: "opt: new es", Reason: fmt.Sprintf("sigma0[%d] must be positive, got %v", i, s)}
		}
	}

	d := len(x0)
	e := &ES{
		dim:       d,
		mean:      append([]float64(nil), x0...),
		sigma:     append([]float64(nil), sigma0...),
		popSize:   4 + int(3*math.Log(float64(d))),
		etaSigma:  (3 + math.Log(float64(d))) / (5 * math.Sqrt(float64(d))),
		bestScore: math.Inf(1),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.popSize < 2 {
		return nil, &asktell.ValidationError{Op: "opt: new es", Reason: fmt.Sprintf("population size must be at least 2, got %d", e.popSize)}
	}
	if e.bounds != nil && e.bounds.Dim() != d {
		return nil, &asktell.ValidationError{Op: "opt: new es", Reason: fmt.Sprintf("boundary dimension %d does not match x0 length %d", e.bounds.Dim(), d)}
	}

	e.norm = distuv.Normal{Mu: 0, Sigma: 1, Src: e.src}
	e.mu = e.popSize / 2
	e.weights = recombinationWeights(e.mu)
	return e, nil
}

// recombinationWeights returns log-rank weights over the top mu candidates,
// normalized to sum to one.
func recombinationWeights(mu int) []float64 {
	w := make([]float64, mu)
	for i := range w {
		w[i] = math.Log(float64(mu)+0.5) - math.Log(float64(i)+1)
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

// Name returns the identifying label of the algorithm.
func (e *ES) Name() string {
	return "Separable Evolution Strategy"
}

// PopulationSize returns the number of candidates per batch.
func (e *ES) PopulationSize() int {
	return e.popSize
}

// Iteration returns the number of completed ask/tell cycles.
func (e *ES) Iteration() int {
	return e.iteration
}

// Ask samples one population of candidates from the current search
// distribution. The requested size n is advisory and ignored: the internal
// population size governs the batch. The very first batch carries the
// starting point x0 as its first candidate, so the initial mean is always
// evaluated and Best can never score worse than it.
func (e *ES) Ask(n int) ([][]float64, error) {
	if err := e.seq.RecordAsk(e.popSize); err != nil {
		return nil, err
	}
	xs := make([][]float64, e.popSize)
	zs := make([][]float64, e.popSize)
	for i := range xs {
		xs[i], zs[i] = e.sampleCandidate()
	}
	if e.iteration == 0 {
		xs[0], zs[0] = e.meanCandidate()
	}
	e.pendingX, e.pendingZ = xs, zs
	return xs, nil
}

// meanCandidate returns the current mean as a candidate (z = 0), clamped
// into the admissible region when it starts outside.
func (e *ES) meanCandidate() (x, z []float64) {
	x = append([]float64(nil), e.mean...)
	z = make([]float64, e.dim)
	if e.bounds != nil && !e.bounds.Contains(x) {
		e.bounds.Clamp(x)
		for j := 0; j < e.dim; j++ {
			z[j] = (x[j] - e.mean[j]) / e.sigma[j]
		}
	}
	return x, z
}

// sampleCandidate draws x = mean + sigma*z, redrawing out-of-bounds
// candidates up to boundedResampleLimit times before clamping to an edge
// value.
func (e *ES) sampleCandidate() (x, z []float64) {
	x = make([]float64, e.dim)
	z = make([]float64, e.dim)
	for attempt := 0; ; attempt++ {
		for j := 0; j < e.dim; j++ {
			z[j] = e.norm.Rand()
			x[j] = e.mean[j] + e.sigma[j]*z[j]
		}
		if e.bounds == nil || e.bounds.Contains(x) {
			return x, z
		}
		if attempt >= boundedResampleLimit {
			e.bounds.Clamp(x)
			for j := 0; j < e.dim; j++ {
				z[j] = (x[j] - e.mean[j]) / e.sigma[j]
			}
			return x, z
		}
	}
}

// Tell consumes one score per candidate of the pending batch, in batch
// order. It updates the running best (strictly better scores only, so ties
// keep the incumbent), recombines the top-ranked half into a new mean and
// adapts the per-dimension step sizes.
func (e *ES) Tell(fx []float64) error {
	if err := e.seq.RecordTell(len(fx)); err != nil {
		return err
	}

	// Stable rank: ties keep batch order.
	order := make([]int, len(fx))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return fx[order[a]] < fx[order[b]] })

	if top := order[0]; fx[top] < e.bestScore {
		e.bestScore = fx[top]
		e.best = append([]float64(nil), e.pendingX[top]...)
	}

	newMean := make([]float64, e.dim)
	stepVar := make([]float64, e.dim)
	for rank, w := range e.weights {
		idx := order[rank]
		floats.AddScaled(newMean, w, e.pendingX[idx])
		z := e.pendingZ[idx]
		for j := 0; j < e.dim; j++ {
			stepVar[j] += w * z[j] * z[j]
		}
	}
	e.mean = newMean
	for j := 0; j < e.dim; j++ {
		e.sigma[j] *= math.Exp(e.etaSigma * (stepVar[j] - 1) / 2)
	}

	e.pendingX, e.pendingZ = nil, nil
	e.iteration++
	return nil
}

// Best returns a copy of the lowest-scoring candidate seen so far and its
// score. Before the first Tell the vector is nil and the score +Inf.
func (e *ES) Best() ([]float64, float64) {
	if e.best == nil {
		return nil, e.bestScore
	}
	return append([]float64(nil), e.best...), e.bestScore
}

// Mean returns a copy of the current search distribution mean.
func (e *ES) Mean() []float64 {
	return append([]float64(nil), e.mean...)
}

// Sigma returns a copy of the current per-dimension step sizes.
func (e *ES) Sigma() []float64 {
	return append([]float64(nil), e.sigma...)
}
