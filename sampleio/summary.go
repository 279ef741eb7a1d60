package sampleio

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// ParamSummary aggregates one parameter's marginal over a sample set.
// Lower and Upper bound the central 95% interval.
type ParamSummary struct {
	Mean   float64
	Std    float64
	Median float64
	Lower  float64
	Upper  float64
}

// Summarize computes per-parameter marginal statistics for a sample set of
// shape (m, d). The set must be rectangular and non-empty.
func Summarize(samples [][]float64) ([]ParamSummary, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("sampleio: cannot summarize an empty sample set")
	}
	cols := len(samples[0])
	if cols == 0 {
		return nil, fmt.Errorf("sampleio: cannot summarize zero-dimensional samples")
	}
	for i, row := range samples {
		if len(row) != cols {
			return nil, fmt.Errorf("sampleio: row %d has %d columns, want %d: %w", i, len(row), cols, ErrShapeMismatch)
		}
	}

	out := make([]ParamSummary, cols)
	col := make([]float64, len(samples))
	for j := 0; j < cols; j++ {
		for i := range samples {
			col[i] = samples[i][j]
		}

		mean, err := stats.Mean(col)
		if err != nil {
			return nil, fmt.Errorf("sampleio: parameter %d mean: %w", j, err)
		}
		std, err := stats.StandardDeviation(col)
		if err != nil {
			return nil, fmt.Errorf("sampleio: parameter %d stddev: %w", j, err)
		}
		median, err := stats.Median(col)
		if err != nil {
			return nil, fmt.Errorf("sampleio: parameter %d median: %w", j, err)
		}
		lower, err := stats.Percentile(col, 2.5)
		if err != nil {
			return nil, fmt.Errorf("sampleio: parameter %d lower percentile: %w", j, err)
		}
		upper, err := stats.Percentile(col, 97.5)
		if err != nil {
			return nil, fmt.Errorf("sampleio: parameter %d upper percentile: %w", j, err)
		}

		out[j] = ParamSummary{Mean: mean, Std: std, Median: median, Lower: lower, Upper: upper}
	}
	return out, nil
}
