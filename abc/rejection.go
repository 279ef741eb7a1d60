// Package abc implements Approximate Bayesian Computation samplers driven
// through the ask/tell protocol.
package abc

import (
	"fmt"

	"github.com/cwbudde/seriesfit/asktell"
	"github.com/cwbudde/seriesfit/prior"
)

// DefaultThreshold is the acceptance bound a new sampler starts with.
const DefaultThreshold = 1.0

// Rejection draws candidates from a prior and accepts them as approximate
// posterior samples when their externally evaluated discrepancy does not
// exceed the threshold.
//
// The sampler never retries internally: rejection runs are unbounded, so the
// caller drives ask/evaluate/tell until Tell returns a non-empty result.
// Keeping the loop outside the sampler is what lets batches be evaluated in
// parallel or interleaved with other work.
type Rejection struct {
	prior     prior.Prior
	threshold float64
	seq       asktell.Sequencer
	pending   [][]float64
}

var _ asktell.Sampler = (*Rejection)(nil)

// NewRejection creates a rejection sampler drawing from the given prior.
func NewRejection(p prior.Prior) *Rejection {
	return &Rejection{prior: p, threshold: DefaultThreshold}
}

// Name returns the identifying label of the algorithm.
func (r *Rejection) Name() string {
	return "Rejection ABC"
}

// Threshold returns the current acceptance bound.
func (r *Rejection) Threshold() float64 {
	return r.threshold
}

// SetThreshold replaces the acceptance bound. Non-positive bounds are
// rejected and the previous value is kept.
func (r *Rejection) SetThreshold(t float64) error {
	if t <= 0 {
		return &asktell.ValidationError{Op: "abc: set threshold", Reason: fmt.Sprintf("must be positive, got %v", t)}
	}
	r.threshold = t
	return nil
}

// Ask draws n independent vectors from the prior and records them as the
// pending batch.
func (r *Rejection) Ask(n int) ([][]float64, error) {
	if n < 1 {
		return nil, &asktell.ValidationError{Op: "abc: ask", Reason: fmt.Sprintf("at least one draw must be requested, got %d", n)}
	}
	if err := r.seq.RecordAsk(n); err != nil {
		return nil, err
	}
	r.pending = r.prior.Sample(n)
	return r.pending, nil
}

// Tell consumes one discrepancy per pending candidate and returns the
// candidates whose discrepancy does not exceed the threshold, in batch
// order. A nil result means every candidate was rejected; either way the
// pending batch is consumed and the sampler awaits the next Ask.
func (r *Rejection) Tell(fx []float64) ([][]float64, error) {
	if err := r.seq.RecordTell(len(fx)); err != nil {
		return nil, err
	}
	var accepted [][]float64
	for i, f := range fx {
		if f <= r.threshold {
			accepted = append(accepted, r.pending[i])
		}
	}
	r.pending = nil
	return accepted, nil
}
