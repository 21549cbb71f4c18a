package oscillator

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/simstats/internal/table"
)

const ErrorsFile = "errores_ecm.txt"

// ErrEmptyTable indicates an error table with a header but no rows.
var ErrEmptyTable = errors.New("oscillator: empty error table")

// ResultsFile names the per-dt position table, e.g. resultados_dt_1E-03.csv.
func ResultsFile(dt float64) string {
	return fmt.Sprintf("resultados_dt_%.0E.csv", dt)
}

// ErrorTable is the mean squared error of each method for each dt.
type ErrorTable struct {
	Dt      []float64
	Methods []string
	MSE     [][]float64 // MSE[i][j]: dt i, method j
}

// Column returns the errors of one method across dt values.
func (e *ErrorTable) Column(method string) ([]float64, bool) {
	for j, m := range e.Methods {
		if m == method {
			out := make([]float64, len(e.MSE))
			for i, row := range e.MSE {
				out[i] = row[j]
			}
			return out, true
		}
	}
	return nil, false
}

type SweepOptions struct {
	// Dir receives one results file per dt and the error table. Empty
	// keeps everything in memory.
	Dir string

	Logger *log.Logger
}

// Sweep runs the comparison for every dt and collects the error table.
func Sweep(p Params, dts []float64, names []string, opts SweepOptions) (*ErrorTable, error) {
	lg := opts.Logger
	if lg == nil {
		lg = log.Default()
	}

	et := &ErrorTable{Methods: append([]string(nil), names...)}
	for _, dt := range dts {
		mse, err := sweepOne(p, dt, names, opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("dt=%g: %w", dt, err)
		}
		et.Dt = append(et.Dt, dt)
		et.MSE = append(et.MSE, mse)

		parts := make([]string, len(names))
		for j, name := range names {
			parts[j] = fmt.Sprintf("%s=%.3e", name, mse[j])
		}
		lg.Printf("dt=%.0e: %s", dt, strings.Join(parts, " "))
	}

	if opts.Dir != "" {
		if err := WriteErrors(filepath.Join(opts.Dir, ErrorsFile), et); err != nil {
			return nil, err
		}
	}
	return et, nil
}

func sweepOne(p Params, dt float64, names []string, dir string) ([]float64, error) {
	if dir == "" {
		return Simulate(p, dt, names, nil)
	}

	f, err := os.Create(filepath.Join(dir, ResultsFile(dt)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := []string{"tiempo", "posicion_analitica"}
	for _, name := range names {
		header = append(header, "posicion_"+name)
	}
	fmt.Fprintln(w, strings.Join(header, ","))

	mse, err := Simulate(p, dt, names, func(s Sample) error {
		w.WriteString(formatFloat(s.T))
		w.WriteByte(',')
		w.WriteString(formatFloat(s.Analytic))
		for _, r := range s.Positions {
			w.WriteByte(',')
			w.WriteString(formatFloat(r))
		}
		return w.WriteByte('\n')
	})
	if err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return mse, f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 16, 64)
}

// WriteErrors writes the table as "dt,ecm_<method>..." CSV.
func WriteErrors(path string, et *ErrorTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := []string{"dt"}
	for _, m := range et.Methods {
		header = append(header, "ecm_"+m)
	}
	fmt.Fprintln(w, strings.Join(header, ","))
	for i, dt := range et.Dt {
		fmt.Fprintf(w, "%.6E", dt)
		for _, v := range et.MSE[i] {
			fmt.Fprintf(w, ",%.18E", v)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadErrors parses an error table, discovering method names from the
// "ecm_" header columns. A missing file wraps fs.ErrNotExist; a table
// without rows returns ErrEmptyTable.
func ReadErrors(path string, lg *log.Logger) (*ErrorTable, error) {
	tab, err := table.ReadFile(path, table.Options{Comma: ',', Header: true, Logger: lg})
	if err != nil {
		if errors.Is(err, table.ErrEmpty) {
			return nil, fmt.Errorf("%s: %w", path, ErrEmptyTable)
		}
		return nil, err
	}

	dtCol := tab.Index("dt")
	if dtCol < 0 {
		return nil, fmt.Errorf("%s: no dt column in header %v", path, tab.Header)
	}

	et := &ErrorTable{}
	var cols []int
	for i, h := range tab.Header {
		if name, ok := strings.CutPrefix(h, "ecm_"); ok {
			et.Methods = append(et.Methods, name)
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s: no ecm_ columns in header %v", path, tab.Header)
	}

	for _, row := range tab.Rows {
		if len(row) < len(tab.Header) {
			continue
		}
		et.Dt = append(et.Dt, row[dtCol])
		vals := make([]float64, len(cols))
		for j, c := range cols {
			vals[j] = row[c]
		}
		et.MSE = append(et.MSE, vals)
	}
	if len(et.Dt) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyTable)
	}
	return et, nil
}

// ReadResults loads a results file written by Sweep.
func ReadResults(path string, lg *log.Logger) (*Comparison, error) {
	tab, err := table.ReadFile(path, table.Options{Comma: ',', Header: true, Logger: lg})
	if err != nil {
		return nil, err
	}
	tCol, aCol := tab.Index("tiempo"), tab.Index("posicion_analitica")
	if tCol < 0 || aCol < 0 {
		return nil, fmt.Errorf("%s: missing tiempo or posicion_analitica column", path)
	}

	run := &Comparison{T: tab.Column(tCol), Analytic: tab.Column(aCol)}
	for i, h := range tab.Header {
		if name, ok := strings.CutPrefix(h, "posicion_"); ok && i != aCol {
			run.Methods = append(run.Methods, name)
			run.Positions = append(run.Positions, tab.Column(i))
		}
	}
	if len(run.T) > 1 {
		run.Dt = run.T[1] - run.T[0]
	}

	run.MSE = make([]float64, len(run.Methods))
	for j, pos := range run.Positions {
		var sum float64
		for i := range pos {
			d := pos[i] - run.Analytic[i]
			sum += d * d
		}
		run.MSE[j] = sum / float64(len(pos))
	}
	return run, nil
}
