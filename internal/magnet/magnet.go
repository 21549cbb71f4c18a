// Package magnet reduces Monte Carlo magnetization histories of a spin
// lattice to stationary averages and susceptibility per probability p.
package magnet

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/san-kum/simstats/internal/table"
	"github.com/san-kum/simstats/internal/trajectory"
	"gonum.org/v1/gonum/stat"
)

// ErrNoData indicates an empty stationary window.
var ErrNoData = errors.New("magnet: no stationary samples")

var pPattern = regexp.MustCompile(`_p([0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\.txt`)

// ParseP extracts p from names like magnetizacion_p0.1.txt (optionally
// compressed).
func ParseP(path string) (float64, bool) {
	m := pPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	p, err := strconv.ParseFloat(m[1], 64)
	return p, err == nil
}

// Series is one magnetization history.
type Series struct {
	Path       string
	P          float64
	MCS        []float64
	Mag        []float64
	MagSquared []float64
	Stationary []bool
}

func (s *Series) Len() int { return len(s.MCS) }

// Load reads "mcs mag mag_squared stationary" rows after one header line.
func Load(path string, lg *log.Logger) (*Series, error) {
	tab, err := table.ReadFile(path, table.Options{
		Skip:    1,
		Columns: []int{0, 1, 2, 3},
		Logger:  lg,
	})
	if err != nil {
		return nil, err
	}

	s := &Series{Path: path, P: -1}
	if p, ok := ParseP(path); ok {
		s.P = p
	}
	for _, row := range tab.Rows {
		s.MCS = append(s.MCS, row[0])
		s.Mag = append(s.Mag, row[1])
		s.MagSquared = append(s.MagSquared, row[2])
		s.Stationary = append(s.Stationary, row[3] == 1)
	}
	return s, nil
}

// Window returns the indices averaged as stationary. A non-negative from
// selects mcs >= from. Otherwise the flagged rows are used, falling back to
// mcs >= Len()/2 when none is flagged.
func (s *Series) Window(from int) []int {
	var idx []int
	if from >= 0 {
		for i, m := range s.MCS {
			if m >= float64(from) {
				idx = append(idx, i)
			}
		}
		return idx
	}

	for i, st := range s.Stationary {
		if st {
			idx = append(idx, i)
		}
	}
	if len(idx) > 0 {
		return idx
	}

	half := float64(s.Len() / 2)
	for i, m := range s.MCS {
		if m >= half {
			idx = append(idx, i)
		}
	}
	return idx
}

type Observables struct {
	P              float64
	AvgMag         float64
	AvgMagSquared  float64
	Susceptibility float64
	Samples        int
}

// Analyze averages |M| and M^2 over the stationary window and returns
// chi = N^2 (<M^2> - <|M|>^2) for an N x N lattice.
func Analyze(s *Series, size int, from int) (Observables, error) {
	idx := s.Window(from)
	if len(idx) == 0 {
		return Observables{}, fmt.Errorf("%s: %w", s.Path, ErrNoData)
	}

	absMag := make([]float64, len(idx))
	sq := make([]float64, len(idx))
	for k, i := range idx {
		absMag[k] = math.Abs(s.Mag[i])
		sq[k] = s.MagSquared[i]
	}
	m := stat.Mean(absMag, nil)
	m2 := stat.Mean(sq, nil)
	n := float64(size)

	return Observables{
		P:              s.P,
		AvgMag:         m,
		AvgMagSquared:  m2,
		Susceptibility: n * n * (m2 - m*m),
		Samples:        len(idx),
	}, nil
}

type Options struct {
	// Size is the lattice side N.
	Size int

	// From overrides the stationary window when non-negative.
	From int

	Logger *log.Logger
}

// AnalyzeGlob loads every file matched by patterns and returns the
// observables sorted by p together with the loaded series. Files without a
// p in their name, unreadable files and empty windows are logged and
// skipped.
func AnalyzeGlob(patterns []string, opts Options) ([]Observables, []*Series, error) {
	lg := opts.Logger
	if lg == nil {
		lg = log.Default()
	}

	files, err := trajectory.Expand(patterns)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%v: %w", patterns, trajectory.ErrNoFiles)
	}

	var obs []Observables
	var series []*Series
	for _, f := range files {
		if _, ok := ParseP(f); !ok {
			lg.Printf("warning: skipping %s: no p in file name", f)
			continue
		}
		s, err := Load(f, lg)
		if err != nil {
			lg.Printf("warning: skipping %s: %v", f, err)
			continue
		}
		o, err := Analyze(s, opts.Size, opts.From)
		if err != nil {
			lg.Printf("warning: skipping %v", err)
			continue
		}
		obs = append(obs, o)
		series = append(series, s)
	}
	if len(obs) == 0 {
		return nil, nil, ErrNoData
	}

	sort.SliceStable(obs, func(i, j int) bool { return obs[i].P < obs[j].P })
	sort.SliceStable(series, func(i, j int) bool { return series[i].P < series[j].P })
	return obs, series, nil
}

// WriteSummary writes "p,avg_mag,avg_mag_squared,susceptibility" CSV.
func WriteSummary(w io.Writer, obs []Observables) error {
	if _, err := fmt.Fprintln(w, "p,avg_mag,avg_mag_squared,susceptibility"); err != nil {
		return err
	}
	for _, o := range obs {
		if _, err := fmt.Fprintf(w, "%s,%s,%s,%s\n",
			fmtFloat(o.P), fmtFloat(o.AvgMag), fmtFloat(o.AvgMagSquared), fmtFloat(o.Susceptibility)); err != nil {
			return err
		}
	}
	return nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
