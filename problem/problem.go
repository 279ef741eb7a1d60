// Package problem adapts forward models and observed time series into the
// scalar objectives the inference algorithms consume.
package problem

import "fmt"

// ForwardModel simulates a time series for a given parameter vector.
// Implementations may fail on parameter vectors outside their valid domain;
// such failures surface to the driver loop unchanged.
type ForwardModel interface {
	// Simulate returns one output value per entry of times.
	Simulate(params, times []float64) ([]float64, error)

	// Dimension reports the length of the parameter vectors the model
	// accepts.
	Dimension() int
}

// SingleOutputProblem binds a forward model to a single observed time
// series.
type SingleOutputProblem struct {
	model  ForwardModel
	times  []float64
	values []float64
}

// NewSingleOutputProblem validates that times and values describe one
// well-formed series and wraps them with the model.
func NewSingleOutputProblem(model ForwardModel, times, values []float64) (*SingleOutputProblem, error) {
	if model == nil {
		return nil, fmt.Errorf("problem: model must not be nil")
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("problem: times must not be empty")
	}
	if len(times) != len(values) {
		return nil, fmt.Errorf("problem: got %d times but %d values", len(times), len(values))
	}
	return &SingleOutputProblem{
		model:  model,
		times:  append([]float64(nil), times...),
		values: append([]float64(nil), values...),
	}, nil
}

// Dimension returns the model's parameter dimensionality.
func (p *SingleOutputProblem) Dimension() int {
	return p.model.Dimension()
}

// Times returns a copy of the observation times.
func (p *SingleOutputProblem) Times() []float64 {
	return append([]float64(nil), p.times...)
}

// Values returns a copy of the observed values.
func (p *SingleOutputProblem) Values() []float64 {
	return append([]float64(nil), p.values...)
}

// Evaluate simulates the model at the given parameters over the problem's
// observation times.
func (p *SingleOutputProblem) Evaluate(params []float64) ([]float64, error) {
	if len(params) != p.model.Dimension() {
		return nil, fmt.Errorf("problem: got %d parameters, model expects %d", len(params), p.model.Dimension())
	}
	return p.model.Simulate(params, p.times)
}
