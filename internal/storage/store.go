// Package storage keeps a directory of analysis runs. Each run is a
// sub-directory holding metadata.json and, when the analysis produced a
// curve or table, series.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("storage: run not found")

	// ErrRagged indicates series columns of different lengths.
	ErrRagged = errors.New("storage: ragged series")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Inputs    []string           `json:"inputs,omitempty"`
	Params    map[string]string  `json:"params,omitempty"`
	Results   map[string]float64 `json:"results"`
	Columns   []string           `json:"columns,omitempty"`
	Rows      int                `json:"rows"`
}

// Series is a set of equally long named columns.
type Series struct {
	Columns []string
	Data    [][]float64
}

func NewSeries() *Series { return &Series{} }

// Add appends a column and returns s.
func (s *Series) Add(name string, values []float64) *Series {
	s.Columns = append(s.Columns, name)
	s.Data = append(s.Data, values)
	return s
}

func (s *Series) Column(name string) ([]float64, bool) {
	for i, c := range s.Columns {
		if c == name {
			return s.Data[i], true
		}
	}
	return nil, false
}

func (s *Series) Rows() int {
	if s == nil || len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

func (s *Series) check() error {
	for i, col := range s.Data {
		if len(col) != s.Rows() {
			return fmt.Errorf("%w: column %s has %d rows, want %d", ErrRagged, s.Columns[i], len(col), s.Rows())
		}
	}
	return nil
}

// WriteCSV writes the header followed by one row per sample.
func (s *Series) WriteCSV(out io.Writer) error {
	if err := s.check(); err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if err := w.Write(s.Columns); err != nil {
		return err
	}
	row := make([]string, len(s.Columns))
	for i := 0; i < s.Rows(); i++ {
		for j, col := range s.Data {
			row[j] = strconv.FormatFloat(col[i], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Run describes one analysis to record.
type Run struct {
	Kind    string
	Inputs  []string
	Params  map[string]string
	Results map[string]float64
	Series  *Series
}

func newRunID(kind string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", kind, now.Unix(), uuid.NewString()[:8])
}

func (s *Store) Save(run Run) (string, error) {
	if run.Series != nil {
		if err := run.Series.check(); err != nil {
			return "", err
		}
	}

	now := time.Now()
	runID := newRunID(run.Kind, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Kind:      run.Kind,
		Timestamp: now,
		Inputs:    run.Inputs,
		Params:    run.Params,
		Results:   finite(run.Results),
	}
	if run.Series != nil {
		meta.Columns = run.Series.Columns
		meta.Rows = run.Series.Rows()
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if run.Series == nil {
		return runID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := run.Series.WriteCSV(csvFile); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
}

// finite drops NaN and infinite results, which JSON cannot encode.
func finite(results map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(results))
	for k, v := range results {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first. Directories without valid
// metadata are ignored.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads series.csv of a run. A run saved without a series yields
// an empty Series.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return NewSeries(), nil
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	if len(records) == 0 {
		return NewSeries(), nil
	}

	series := &Series{
		Columns: records[0],
		Data:    make([][]float64, len(records[0])),
	}
	for i, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d column %s: %w", runID, i+1, series.Columns[j], err)
			}
			series.Data[j] = append(series.Data[j], v)
		}
	}
	return series, nil
}
