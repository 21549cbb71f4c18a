package diffusion

import (
	"fmt"
	"log"
	"math"

	"github.com/san-kum/simstats/internal/trajectory"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

const DefaultPoints = 100

// Curve is an MSD curve on a reference time grid.
type Curve struct {
	T      []float64
	MSD    []float64
	StdErr []float64

	// Trajectories is the number of trajectories averaged.
	Trajectories int
}

func (c *Curve) Len() int { return len(c.T) }

// Window returns the points with tmin <= t <= tmax. A non-positive tmax
// leaves the upper end open.
func (c *Curve) Window(tmin, tmax float64) *Curve {
	out := &Curve{Trajectories: c.Trajectories}
	for i, t := range c.T {
		if t < tmin || (tmax > 0 && t > tmax) {
			continue
		}
		out.T = append(out.T, t)
		out.MSD = append(out.MSD, c.MSD[i])
		out.StdErr = append(out.StdErr, c.StdErr[i])
	}
	return out
}

// Grid builds n evenly spaced reference times covering the span shared by
// every trajectory, optionally capped at cutoff. The grid never reaches
// outside any trajectory.
func Grid(trajs []*trajectory.Trajectory, n int, cutoff float64) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 reference points, got %d", ErrInsufficientData, n)
	}
	if len(trajs) == 0 {
		return nil, fmt.Errorf("%w: no trajectories", ErrInsufficientData)
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	for _, tr := range trajs {
		first, last := tr.Span()
		lo = math.Max(lo, first)
		hi = math.Min(hi, last)
	}
	lo = math.Max(lo, 0)
	if cutoff > 0 {
		hi = math.Min(hi, cutoff)
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("%w: empty common time span [%g, %g]", ErrInsufficientData, lo, hi)
	}

	grid := floats.Span(make([]float64, n), lo, hi)
	grid[0], grid[n-1] = lo, hi
	return grid, nil
}

// Resample linearly interpolates x(t) and y(t) of tr onto grid.
func Resample(tr *trajectory.Trajectory, grid []float64) ([]float64, []float64, error) {
	if tr.Len() < 2 {
		return nil, nil, fmt.Errorf("%w: %s has %d samples", ErrInsufficientData, tr.Source, tr.Len())
	}
	if len(grid) == 0 {
		return nil, nil, nil
	}
	first, last := tr.Span()
	if grid[0] < first || grid[len(grid)-1] > last {
		return nil, nil, fmt.Errorf("%w: %s spans [%g, %g], grid [%g, %g]",
			ErrExtrapolation, tr.Source, first, last, grid[0], grid[len(grid)-1])
	}

	var px, py interp.PiecewiseLinear
	if err := px.Fit(tr.T, tr.X); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", tr.Source, err)
	}
	if err := py.Fit(tr.T, tr.Y); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", tr.Source, err)
	}

	xs := make([]float64, len(grid))
	ys := make([]float64, len(grid))
	for i, t := range grid {
		xs[i] = px.Predict(t)
		ys[i] = py.Predict(t)
	}
	return xs, ys, nil
}

type AggregateOptions struct {
	// Points is the number of reference times. Zero uses DefaultPoints.
	Points int

	// Cutoff caps the reference grid. Zero or negative disables it.
	Cutoff float64

	Logger *log.Logger
}

// Aggregate averages squared displacement across trajectories. Trajectories
// with fewer than two samples are excluded with a warning.
func Aggregate(trajs []*trajectory.Trajectory, opts AggregateOptions) (*Curve, error) {
	lg := opts.Logger
	if lg == nil {
		lg = log.Default()
	}
	points := opts.Points
	if points == 0 {
		points = DefaultPoints
	}

	usable := make([]*trajectory.Trajectory, 0, len(trajs))
	for _, tr := range trajs {
		if tr.Len() < 2 {
			lg.Printf("warning: excluding %s: %d samples cannot be interpolated", tr.Source, tr.Len())
			continue
		}
		usable = append(usable, tr)
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w: no trajectory with at least 2 samples", ErrInsufficientData)
	}

	grid, err := Grid(usable, points, opts.Cutoff)
	if err != nil {
		return nil, err
	}

	// sd[j][k]: squared displacement of trajectory k at grid[j]
	sd := make([][]float64, len(grid))
	for j := range sd {
		sd[j] = make([]float64, len(usable))
	}
	for k, tr := range usable {
		xs, ys, err := Resample(tr, grid)
		if err != nil {
			return nil, err
		}
		for j := range grid {
			dx := xs[j] - xs[0]
			dy := ys[j] - ys[0]
			sd[j][k] = dx*dx + dy*dy
		}
	}

	n := float64(len(usable))
	curve := &Curve{
		T:            grid,
		MSD:          make([]float64, len(grid)),
		StdErr:       make([]float64, len(grid)),
		Trajectories: len(usable),
	}
	for j, vals := range sd {
		mean, std := popMeanStd(vals)
		curve.MSD[j] = mean
		curve.StdErr[j] = stat.StdErr(std, n)
	}
	return curve, nil
}

// popMeanStd returns the mean and population standard deviation of x.
func popMeanStd(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	mean, variance := stat.MeanVariance(x, nil)
	n := float64(len(x))
	return mean, math.Sqrt(math.Max(0, variance*(n-1)/n))
}
