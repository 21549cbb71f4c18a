// Package table reads the ad hoc numeric text files written by the
// simulators: whitespace or comma separated columns, optional header lines,
// '#' comments and occasional inline markers such as e12 (event index) or
// p3 (particle id).
//
// Rows that cannot be parsed are skipped with a warning and never abort the
// read. A file that yields no rows at all returns [ErrEmpty].
package table

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type Options struct {
	// Comma separates fields. Zero means any run of whitespace.
	Comma rune

	// Header treats the first non-comment line as column names.
	Header bool

	// Skip drops this many leading non-comment lines without warnings.
	Skip int

	// Comment prefix; empty defaults to "#".
	Comment string

	// Columns selects and orders the fields kept for each row. When nil
	// every field is parsed.
	Columns []int

	// Logger receives warnings for skipped rows. Nil uses log.Default().
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

type Table struct {
	Path    string
	Header  []string
	Rows    [][]float64
	Skipped int
}

// Column returns column i as a new slice. Rows too short for i are skipped.
func (t *Table) Column(i int) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if i < len(r) {
			out = append(out, r[i])
		}
	}
	return out
}

// Index returns the position of the named header column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadFile opens path (see [Open]) and reads it as a table.
func ReadFile(path string, opts Options) (*Table, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Read(rc, path, opts)
}

// Read parses r. name is used in warnings and errors only.
func Read(r io.Reader, name string, opts Options) (*Table, error) {
	comment := opts.Comment
	if comment == "" {
		comment = "#"
	}
	lg := opts.logger()

	need := 0
	for _, c := range opts.Columns {
		if c+1 > need {
			need = c + 1
		}
	}

	t := &Table{Path: name}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	line := 0
	skip := opts.Skip
	wantHeader := opts.Header
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, comment) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}

		fields := Split(text, opts.Comma)
		if wantHeader {
			t.Header = fields
			wantHeader = false
			continue
		}

		row, err := parseRow(fields, opts.Columns, need)
		if err != nil {
			t.Skipped++
			lg.Printf("warning: skipping %v", &LineError{Path: name, Line: line, Err: err})
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return t, fmt.Errorf("read %s: %w", name, err)
	}

	if len(t.Rows) == 0 {
		return t, fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	return t, nil
}

// Split breaks a line into fields on comma, or on whitespace when comma is 0.
func Split(line string, comma rune) []string {
	if comma == 0 {
		return strings.Fields(line)
	}
	parts := strings.Split(line, string(comma))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseRow(fields []string, cols []int, need int) ([]float64, error) {
	if cols == nil {
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := ParseField(f)
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		return row, nil
	}

	if len(fields) < need {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrFieldCount, len(fields), need)
	}
	row := make([]float64, len(cols))
	for i, c := range cols {
		v, err := ParseField(fields[c])
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// ParseField parses a finite number, accepting a single-letter marker
// prefix such as "e12" or "p3".
func ParseField(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && len(s) > 1 && unicode.IsLetter(rune(s[0])) {
		v, err = strconv.ParseFloat(s[1:], 64)
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return v, nil
}
