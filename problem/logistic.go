package problem

import (
	"fmt"
	"math"
)

// LogisticModel is a toy logistic growth model with parameters [r, k]:
// growth rate and carrying capacity. The population starts at p0.
//
//	p(t) = k * p0 * exp(r t) / (k + p0 * (exp(r t) - 1))
type LogisticModel struct {
	p0 float64
}

// NewLogisticModel creates a logistic model with initial population p0.
func NewLogisticModel(p0 float64) (*LogisticModel, error) {
	if p0 <= 0 {
		return nil, fmt.Errorf("problem: initial population must be positive, got %v", p0)
	}
	return &LogisticModel{p0: p0}, nil
}

// Dimension returns 2: growth rate and carrying capacity.
func (m *LogisticModel) Dimension() int {
	return 2
}

// Simulate evaluates the logistic growth curve at the given times. The
// carrying capacity must be positive; a non-positive value is a domain
// error surfaced to the caller.
func (m *LogisticModel) Simulate(params, times []float64) ([]float64, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("problem: logistic model expects 2 parameters, got %d", len(params))
	}
	r, k := params[0], params[1]
	if k <= 0 {
		return nil, fmt.Errorf("problem: carrying capacity must be positive, got %v", k)
	}

	out := make([]float64, len(times))
	for i, t := range times {
		e := math.Exp(r * t)
		out[i] = k * m.p0 * e / (k + m.p0*(e-1))
	}
	return out, nil
}
