package diffusion

import (
	"fmt"
	"log"
	"math"

	"github.com/san-kum/simstats/internal/optim"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultSweepPoints = 100
	DefaultTolerance   = 0.1
)

type FitOptions struct {
	// TMin and TMax bound the fitted window. A non-positive TMax leaves it open.
	TMin float64
	TMax float64

	// SweepPoints is the number of candidate D values. Zero uses DefaultSweepPoints.
	SweepPoints int

	// SweepMax is the upper end of the candidate range. Zero uses twice the
	// through-origin estimate.
	SweepMax float64

	// Refine polishes the best sweep candidate with a local minimiser.
	Refine bool

	// Tolerance is the relative disagreement between the least-squares and
	// sweep estimates above which a warning is logged. Zero uses DefaultTolerance.
	Tolerance float64

	Logger *log.Logger
}

type FitResult struct {
	// D is the least-squares slope over 4; DErr its standard error.
	D         float64
	DErr      float64
	Intercept float64
	R2        float64

	// DOrigin is the least-squares estimate with the line forced through 0.
	DOrigin float64

	// DSweep minimises MeanSquaredError(D) over the candidate range.
	DSweep   float64
	MinError float64

	SweepD     []float64
	SweepError []float64

	TMin, TMax float64
	Points     int
}

// Disagreement is the relative difference between the two D estimates.
func (r *FitResult) Disagreement() float64 {
	if r.D == 0 {
		return math.Abs(r.DSweep)
	}
	return math.Abs(r.D-r.DSweep) / math.Abs(r.D)
}

// MeanSquaredError returns mean((msd_i - 4 d t_i)^2).
func MeanSquaredError(t, msd []float64, d float64) float64 {
	if len(t) == 0 {
		return math.NaN()
	}
	var sum float64
	for i := range t {
		r := msd[i] - 4*d*t[i]
		sum += r * r
	}
	return sum / float64(len(t))
}

// Fit estimates D from the part of curve inside the configured window.
func Fit(curve *Curve, opts FitOptions) (*FitResult, error) {
	lg := opts.Logger
	if lg == nil {
		lg = log.Default()
	}

	w := curve.Window(opts.TMin, opts.TMax)
	if w.Len() < 2 {
		return nil, fmt.Errorf("%w: %d points in window [%g, %g]", ErrInsufficientData, w.Len(), opts.TMin, opts.TMax)
	}
	t, msd := w.T, w.MSD

	alpha, beta := stat.LinearRegression(t, msd, nil, false)
	_, beta0 := stat.LinearRegression(t, msd, nil, true)

	res := &FitResult{
		D:         beta / 4,
		DErr:      slopeStdErr(t, msd, alpha, beta) / 4,
		Intercept: alpha,
		R2:        stat.RSquared(t, msd, nil, alpha, beta),
		DOrigin:   beta0 / 4,
		TMin:      t[0],
		TMax:      t[len(t)-1],
		Points:    len(t),
	}

	n := opts.SweepPoints
	if n == 0 {
		n = DefaultSweepPoints
	}
	hi := opts.SweepMax
	if hi <= 0 {
		hi = 2 * res.DOrigin
	}
	if hi <= 0 {
		hi = 2 * math.Abs(res.D)
	}
	if hi <= 0 {
		hi = 1
	}

	mse := func(d float64) float64 { return MeanSquaredError(t, msd, d) }
	ds, errs, best := optim.Sweep(0, hi, n, mse)
	res.SweepD, res.SweepError = ds, errs
	res.DSweep, res.MinError = ds[best], errs[best]

	if opts.Refine {
		x, v := optim.Refine(func(p []float64) float64 { return mse(p[0]) }, []float64{res.DSweep})
		res.DSweep, res.MinError = x[0], v
	}

	tol := opts.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	if dis := res.Disagreement(); dis > tol {
		lg.Printf("warning: least-squares D=%.4e and sweep D=%.4e differ by %.0f%%; check the fit window",
			res.D, res.DSweep, 100*dis)
	}

	return res, nil
}

// slopeStdErr is the standard error of the least-squares slope.
func slopeStdErr(x, y []float64, alpha, beta float64) float64 {
	n := len(x)
	if n < 3 {
		return 0
	}
	mx := stat.Mean(x, nil)
	var ssr, sxx float64
	for i := range x {
		r := y[i] - (alpha + beta*x[i])
		ssr += r * r
		d := x[i] - mx
		sxx += d * d
	}
	if sxx == 0 {
		return 0
	}
	return math.Sqrt(ssr / float64(n-2) / sxx)
}
