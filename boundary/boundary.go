// Package boundary describes admissible regions of parameter space.
package boundary

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Rectangular is an axis-aligned box constraint on parameter vectors.
type Rectangular struct {
	lower, upper []float64
	dists        []distuv.Uniform
}

// NewRectangular creates a rectangular admissible region [lower, upper].
// A nil src falls back to the shared global source for Sample.
func NewRectangular(lower, upper []float64, src rand.Source) (*Rectangular, error) {
	if len(lower) == 0 {
		return nil, fmt.Errorf("boundary: at least one dimension is required")
	}
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("boundary: lower has %d entries but upper has %d", len(lower), len(upper))
	}

	dists := make([]distuv.Uniform, len(lower))
	for i := range lower {
		if !(lower[i] < upper[i]) {
			return nil, fmt.Errorf("boundary: lower[%d]=%v must be strictly below upper[%d]=%v", i, lower[i], i, upper[i])
		}
		dists[i] = distuv.Uniform{Min: lower[i], Max: upper[i], Src: src}
	}

	return &Rectangular{
		lower: append([]float64(nil), lower...),
		upper: append([]float64(nil), upper...),
		dists: dists,
	}, nil
}

// Dim returns the dimensionality of the region.
func (b *Rectangular) Dim() int {
	return len(b.lower)
}

// Lower returns a copy of the lower bounds.
func (b *Rectangular) Lower() []float64 {
	return append([]float64(nil), b.lower...)
}

// Upper returns a copy of the upper bounds.
func (b *Rectangular) Upper() []float64 {
	return append([]float64(nil), b.upper...)
}

// Contains reports whether x lies inside the region. Vectors of the wrong
// dimension are never admissible.
func (b *Rectangular) Contains(x []float64) bool {
	if len(x) != len(b.lower) {
		return false
	}
	for i := range x {
		if x[i] < b.lower[i] || x[i] > b.upper[i] {
			return false
		}
	}
	return true
}

// Clamp moves x into the region in place.
func (b *Rectangular) Clamp(x []float64) {
	for i := range x {
		x[i] = clamp(x[i], b.lower[i], b.upper[i])
	}
}

// Sample draws n vectors uniformly from the region.
func (b *Rectangular) Sample(n int) [][]float64 {
	xs := make([][]float64, n)
	for i := range xs {
		x := make([]float64, len(b.dists))
		for j := range b.dists {
			x[j] = b.dists[j].Rand()
		}
		xs[i] = x
	}
	return xs
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
