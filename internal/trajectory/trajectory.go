// Package trajectory loads per-particle (t, x, y) trajectories from the
// text output of the event-driven simulator.
package trajectory

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"github.com/san-kum/simstats/internal/table"
)

var (
	// ErrNoFiles indicates that no input pattern matched a file.
	ErrNoFiles = errors.New("trajectory: no files matched")

	// ErrNoData indicates that every matched file failed or was empty.
	ErrNoData = errors.New("trajectory: no data")
)

// Layout names the zero-based columns holding time and position.
type Layout struct {
	Time int `yaml:"time"`
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
}

// DefaultLayout matches "collision_num x y vx vy time" rows.
var DefaultLayout = Layout{Time: 5, X: 1, Y: 2}

type Options struct {
	// Cutoff keeps only samples with t <= Cutoff. Zero or negative disables it.
	Cutoff float64

	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Trajectory holds parallel time and position samples with strictly
// increasing times.
type Trajectory struct {
	Source string
	T      []float64
	X      []float64
	Y      []float64
}

// New builds a trajectory from parallel slices, dropping samples whose time
// does not strictly increase. It returns the number of dropped samples.
func New(source string, t, x, y []float64) (*Trajectory, int) {
	n := min(len(t), len(x), len(y))
	tr := &Trajectory{
		Source: source,
		T:      make([]float64, 0, n),
		X:      make([]float64, 0, n),
		Y:      make([]float64, 0, n),
	}
	dropped := 0
	for i := 0; i < n; i++ {
		if k := len(tr.T); k > 0 && t[i] <= tr.T[k-1] {
			dropped++
			continue
		}
		tr.T = append(tr.T, t[i])
		tr.X = append(tr.X, x[i])
		tr.Y = append(tr.Y, y[i])
	}
	return tr, dropped
}

func (tr *Trajectory) Len() int { return len(tr.T) }

// Span returns the first and last sample times.
func (tr *Trajectory) Span() (float64, float64) {
	if len(tr.T) == 0 {
		return 0, 0
	}
	return tr.T[0], tr.T[len(tr.T)-1]
}

// Truncate keeps only samples with t <= cutoff.
func (tr *Trajectory) Truncate(cutoff float64) {
	n := sort.Search(len(tr.T), func(i int) bool { return tr.T[i] > cutoff })
	tr.T = tr.T[:n]
	tr.X = tr.X[:n]
	tr.Y = tr.Y[:n]
}

// Points returns the positions as (x, y) pairs.
func (tr *Trajectory) Points() [][2]float64 {
	pts := make([][2]float64, len(tr.T))
	for i := range tr.T {
		pts[i] = [2]float64{tr.X[i], tr.Y[i]}
	}
	return pts
}

// Load reads one trajectory file. Malformed rows are skipped with a warning.
func Load(path string, layout Layout, opts Options) (*Trajectory, error) {
	lg := opts.logger()
	tab, err := table.ReadFile(path, table.Options{
		Columns: []int{layout.Time, layout.X, layout.Y},
		Logger:  lg,
	})
	if err != nil {
		return nil, err
	}

	tr, dropped := New(path, tab.Column(0), tab.Column(1), tab.Column(2))
	if dropped > 0 {
		lg.Printf("warning: %s: dropped %d samples with non-increasing time", path, dropped)
	}
	if opts.Cutoff > 0 {
		tr.Truncate(opts.Cutoff)
	}
	if tr.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return tr, nil
}

// Expand resolves glob patterns into a sorted, de-duplicated file list.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadGlob loads every file matched by patterns. A file that cannot be read
// is logged and skipped; the run fails only when nothing usable remains.
func LoadGlob(patterns []string, layout Layout, opts Options) ([]*Trajectory, error) {
	files, err := Expand(patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%v: %w", patterns, ErrNoFiles)
	}

	lg := opts.logger()
	trajs := make([]*Trajectory, 0, len(files))
	for _, f := range files {
		tr, err := Load(f, layout, opts)
		if err != nil {
			lg.Printf("warning: skipping %s: %v", f, err)
			continue
		}
		trajs = append(trajs, tr)
	}

	if len(trajs) == 0 {
		return nil, ErrNoData
	}
	return trajs, nil
}
