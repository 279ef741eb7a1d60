package problem

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Measure maps a parameter vector to a scalar lower-is-better error.
// Measures are the evaluator side of the ask/tell loop: the driver calls
// them on each candidate a batch proposes.
type Measure func(params []float64) (float64, error)

// SumOfSquaresError returns a measure computing the sum of squared
// residuals between the problem's data and the model output.
func SumOfSquaresError(p *SingleOutputProblem) Measure {
	values := p.Values()
	return func(params []float64) (float64, error) {
		sim, err := p.Evaluate(params)
		if err != nil {
			return 0, err
		}
		d := floats.Distance(sim, values, 2)
		return d * d, nil
	}
}

// RootMeanSquaredError returns a measure computing the root mean squared
// residual between the problem's data and the model output.
func RootMeanSquaredError(p *SingleOutputProblem) Measure {
	values := p.Values()
	n := float64(len(values))
	return func(params []float64) (float64, error) {
		sim, err := p.Evaluate(params)
		if err != nil {
			return 0, err
		}
		return floats.Distance(sim, values, 2) / math.Sqrt(n), nil
	}
}
