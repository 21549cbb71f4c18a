package collision

import (
	"fmt"
	"log"
	"math"

	"github.com/san-kum/simstats/internal/table"
	"gonum.org/v1/gonum/stat"
)

// Pressure is a wall and obstacle pressure time series.
type Pressure struct {
	Path     string
	Time     []float64
	Obstacle []float64
	Walls    []float64
}

// LoadPressure reads "time pressure_obstacle pressure_walls" rows. Columns
// are located by header name and default to 0, 1, 2.
func LoadPressure(path string, lg *log.Logger) (*Pressure, error) {
	tab, err := table.ReadFile(path, table.Options{Header: true, Logger: lg})
	if err != nil {
		return nil, err
	}

	col := func(name string, def int) int {
		if i := tab.Index(name); i >= 0 {
			return i
		}
		return def
	}
	ti, oi, wi := col("time", 0), col("pressure_obstacle", 1), col("pressure_walls", 2)

	p := &Pressure{Path: path}
	for _, row := range tab.Rows {
		if len(row) <= max(ti, oi, wi) {
			continue
		}
		p.Time = append(p.Time, row[ti])
		p.Obstacle = append(p.Obstacle, row[oi])
		p.Walls = append(p.Walls, row[wi])
	}
	if len(p.Time) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return p, nil
}

// Total returns obstacle + walls pressure for samples with time >= t0.
func (p *Pressure) Total(t0 float64) ([]float64, []float64) {
	var ts, total []float64
	for i, t := range p.Time {
		if t >= t0 {
			ts = append(ts, t)
			total = append(total, p.Obstacle[i]+p.Walls[i])
		}
	}
	return ts, total
}

// Stats returns the mean and population standard deviation of the total
// pressure for t >= t0.
func (p *Pressure) Stats(t0 float64) (float64, float64, error) {
	_, total := p.Total(t0)
	if len(total) == 0 {
		return 0, 0, fmt.Errorf("%s: %w: no samples after t=%g", p.Path, ErrNoData, t0)
	}
	return stat.Mean(total, nil), popStd(total), nil
}

type PressurePoint struct {
	V           float64
	Temperature float64
	Mean        float64
	Std         float64
	Series      *Pressure
}

// AnalyzePressure computes the stationary pressure for every speed. Missing
// or empty files are logged and skipped.
func AnalyzePressure(dir string, velocities []float64, t0 float64, opts Options) ([]PressurePoint, error) {
	lg := opts.logger()

	var out []PressurePoint
	for _, v := range velocities {
		p, err := LoadPressure(PressureFile(dir, v), lg)
		if err != nil {
			lg.Printf("warning: skipping v=%g: %v", v, err)
			continue
		}
		mean, std, err := p.Stats(t0)
		if err != nil {
			lg.Printf("warning: skipping v=%g: %v", v, err)
			continue
		}
		out = append(out, PressurePoint{
			V:           v,
			Temperature: Temperature(opts.Mass, v),
			Mean:        mean,
			Std:         std,
			Series:      p,
		})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func popStd(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	_, variance := stat.PopMeanVariance(x, nil)
	return math.Sqrt(variance)
}
