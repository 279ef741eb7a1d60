// Package prior provides the distributions inference algorithms draw
// candidate parameter vectors from.
package prior

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Prior draws parameter vectors and scores their log-density. Random sources
// are injected at construction so algorithm instances stay independently
// reproducible; implementations are not safe for concurrent use.
type Prior interface {
	// Dim returns the dimensionality of drawn vectors.
	Dim() int

	// Sample draws n independent parameter vectors.
	Sample(n int) [][]float64

	// LogPdf evaluates the log-density at x. Points outside the support
	// score negative infinity.
	LogPdf(x []float64) float64
}

// Uniform is an axis-aligned box prior with independent uniform marginals.
type Uniform struct {
	lower, upper []float64
	dists        []distuv.Uniform
	logDensity   float64
}

// NewUniform creates a uniform prior over the box [lower, upper]. A nil src
// falls back to the shared global source.
func NewUniform(lower, upper []float64, src rand.Source) (*Uniform, error) {
	if len(lower) == 0 {
		return nil, fmt.Errorf("prior: at least one dimension is required")
	}
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("prior: lower has %d entries but upper has %d", len(lower), len(upper))
	}

	dists := make([]distuv.Uniform, len(lower))
	logDensity := 0.0
	for i := range lower {
		if !(lower[i] < upper[i]) {
			return nil, fmt.Errorf("prior: lower[%d]=%v must be strictly below upper[%d]=%v", i, lower[i], i, upper[i])
		}
		dists[i] = distuv.Uniform{Min: lower[i], Max: upper[i], Src: src}
		logDensity -= math.Log(upper[i] - lower[i])
	}

	return &Uniform{
		lower:      append([]float64(nil), lower...),
		upper:      append([]float64(nil), upper...),
		dists:      dists,
		logDensity: logDensity,
	}, nil
}

func (u *Uniform) Dim() int {
	return len(u.lower)
}

func (u *Uniform) Sample(n int) [][]float64 {
	xs := make([][]float64, n)
	for i := range xs {
		x := make([]float64, len(u.dists))
		for j := range u.dists {
			x[j] = u.dists[j].Rand()
		}
		xs[i] = x
	}
	return xs
}

func (u *Uniform) LogPdf(x []float64) float64 {
	if len(x) != len(u.lower) {
		return math.Inf(-1)
	}
	for i := range x {
		if x[i] < u.lower[i] || x[i] > u.upper[i] {
			return math.Inf(-1)
		}
	}
	return u.logDensity
}

// Gaussian is a prior with independent normal marginals.
type Gaussian struct {
	dists []distuv.Normal
}

// NewGaussian creates a Gaussian prior with the given per-dimension means
// and standard deviations. A nil src falls back to the shared global source.
func NewGaussian(mean, stddev []float64, src rand.Source) (*Gaussian, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("prior: at least one dimension is required")
	}
	if len(mean) != len(stddev) {
		return nil, fmt.Errorf("prior: mean has %d entries but stddev has %d", len(mean), len(stddev))
	}

	dists := make([]distuv.Normal, len(mean))
	for i := range mean {
		if stddev[i] <= 0 {
			return nil, fmt.Errorf("prior: stddev[%d] must be positive, got %v", i, stddev[i])
		}
		dists[i] = distuv.Normal{Mu: mean[i], Sigma: stddev[i], Src: src}
	}

	return &Gaussian{dists: dists}, nil
}

func (g *Gaussian) Dim() int {
	return len(g.dists)
}

func (g *Gaussian) Sample(n int) [][]float64 {
	xs := make([][]float64, n)
	for i := range xs {
		x := make([]float64, len(g.dists))
		for j := range g.dists {
			x[j] = g.dists[j].Rand()
		}
		xs[i] = x
	}
	return xs
}

func (g *Gaussian) LogPdf(x []float64) float64 {
	if len(x) != len(g.dists) {
		return math.Inf(-1)
	}
	var sum float64
	for i := range x {
		sum += g.dists[i].LogProb(x[i])
	}
	return sum
}
