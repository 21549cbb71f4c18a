// Package optim holds the one-dimensional sweep and local refinement used
// to minimise fit errors.
package optim

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Objective maps a candidate parameter vector to a value to minimise.
type Objective func(params []float64) float64

// Sweep evaluates f at n evenly spaced points on [lo, hi] and returns the
// candidates, their values and the index of the minimum. NaN values are
// never selected unless every value is NaN.
func Sweep(lo, hi float64, n int, f func(float64) float64) (xs, values []float64, best int) {
	if n < 2 {
		n = 2
	}
	xs = floats.Span(make([]float64, n), lo, hi)
	values = make([]float64, n)
	for i, x := range xs {
		values[i] = f(x)
	}
	best = -1
	for i, v := range values {
		if !math.IsNaN(v) && (best < 0 || v < values[best]) {
			best = i
		}
	}
	return xs, values, max(best, 0)
}

// Refine polishes x0 with Nelder-Mead. It returns x0 unchanged when the local
// search fails or does not improve on f(x0).
func Refine(f Objective, x0 []float64) ([]float64, float64) {
	start := f(x0)
	p := optimize.Problem{Func: func(x []float64) float64 { return f(x) }}

	res, err := optimize.Minimize(p, x0, nil, &optimize.NelderMead{})
	if err != nil || res == nil || !(res.F < start) {
		out := make([]float64, len(x0))
		copy(out, x0)
		return out, start
	}
	return res.X, res.F
}
