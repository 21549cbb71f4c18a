// Package collision analyses the event-driven molecular dynamics outputs:
// cumulative obstacle collision counts and wall/obstacle pressure series,
// one file per initial particle speed.
package collision

import (
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strconv"

	"github.com/san-kum/simstats/internal/table"
)

const (
	DefaultEventDt = 0.01
	DefaultLimit   = 200
	DefaultBlocks  = 10
)

// ErrNoData indicates a series without usable rows after filtering.
var ErrNoData = errors.New("collision: no data")

// speedLabel formats v like the simulator does in file names: 1 -> "1.0".
func speedLabel(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) {
		s += ".0"
	}
	return s
}

// CountsFile names the collision count file for speed v.
func CountsFile(dir string, v float64) string {
	return filepath.Join(dir, "collisions_count_v"+speedLabel(v)+".txt")
}

// PressureFile names the pressure file for speed v.
func PressureFile(dir string, v float64) string {
	return filepath.Join(dir, "pressure_time_v"+speedLabel(v)+".txt")
}

// Temperature returns the kinetic temperature m v^2 / 2.
func Temperature(mass, v float64) float64 {
	return 0.5 * mass * v * v
}

// Counts is a cumulative collision history.
type Counts struct {
	Path  string
	Event []float64
	First []float64 // distinct particles that have hit the obstacle
	All   []float64 // every obstacle collision
	Time  []float64
}

func (c *Counts) Len() int { return len(c.Time) }

// LoadCounts reads "e<N> first all [time]" rows after one header line. When
// the time column is missing, time = N * eventDt.
func LoadCounts(path string, eventDt float64, lg *log.Logger) (*Counts, error) {
	if lg == nil {
		lg = log.Default()
	}
	tab, err := table.ReadFile(path, table.Options{Skip: 1, Logger: lg})
	if err != nil {
		return nil, err
	}

	c := &Counts{Path: path}
	for i, row := range tab.Rows {
		if len(row) < 3 {
			lg.Printf("warning: skipping %s row %d: %d fields", path, i+1, len(row))
			continue
		}
		t := row[0] * eventDt
		if len(row) >= 4 {
			t = row[3]
		}
		c.Event = append(c.Event, row[0])
		c.First = append(c.First, row[1])
		c.All = append(c.All, row[2])
		c.Time = append(c.Time, t)
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return c, nil
}

// Frequency returns the mean obstacle collision rate over the whole series
// and the population standard deviation of the rates of equal blocks. The
// last block absorbs the remainder; blocks without elapsed time are skipped.
func (c *Counts) Frequency(blocks int) (float64, float64, error) {
	n := c.Len()
	if n < 2 {
		return 0, 0, fmt.Errorf("%s: %w: %d rows", c.Path, ErrNoData, n)
	}
	duration := c.Time[n-1] - c.Time[0]
	if duration <= 0 {
		return 0, 0, fmt.Errorf("%s: %w: zero duration", c.Path, ErrNoData)
	}
	freq := (c.All[n-1] - c.All[0]) / duration

	if blocks < 1 {
		blocks = DefaultBlocks
	}
	size := n / blocks
	var rates []float64
	for b := 0; b < blocks; b++ {
		start := b * size
		end := (b + 1) * size
		if b == blocks-1 {
			end = n
		}
		if end-1 <= start {
			continue
		}
		dt := c.Time[end-1] - c.Time[start]
		if dt > 0 {
			rates = append(rates, (c.All[end-1]-c.All[start])/dt)
		}
	}
	return freq, popStd(rates), nil
}

// FirstCurve returns the first-collision count up to and including the
// first sample that reaches limit.
func (c *Counts) FirstCurve(limit float64) ([]float64, []float64) {
	for i, f := range c.First {
		if f >= limit {
			return c.Time[:i+1], c.First[:i+1]
		}
	}
	return c.Time, c.First
}

// Point summarises one speed.
type Point struct {
	V           float64
	Temperature float64
	Freq        float64
	FreqStd     float64
	Counts      *Counts
}

type Options struct {
	Mass    float64
	EventDt float64
	Blocks  int
	Logger  *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// AnalyzeCounts computes the collision frequency for every speed. Missing
// or empty files are logged and skipped.
func AnalyzeCounts(dir string, velocities []float64, opts Options) ([]Point, error) {
	lg := opts.logger()
	eventDt := opts.EventDt
	if eventDt <= 0 {
		eventDt = DefaultEventDt
	}

	var out []Point
	for _, v := range velocities {
		path := CountsFile(dir, v)
		c, err := LoadCounts(path, eventDt, lg)
		if err != nil {
			lg.Printf("warning: skipping v=%g: %v", v, err)
			continue
		}
		freq, std, err := c.Frequency(opts.Blocks)
		if err != nil {
			lg.Printf("warning: skipping v=%g: %v", v, err)
			continue
		}
		out = append(out, Point{
			V:           v,
			Temperature: Temperature(opts.Mass, v),
			Freq:        freq,
			FreqStd:     std,
			Counts:      c,
		})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
