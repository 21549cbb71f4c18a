package table

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func quietLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(buf, "", 0)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1.5", 1.5, false},
		{"-2e-3", -2e-3, false},
		{"e12", 12, false},
		{"p3", 3, false},
		{"x", 0, true},
		{"time", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseField(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseField(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseField(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseField(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadSkipsMalformedRows(t *testing.T) {
	input := `# collision x y vx vy time
1 0.0 0.0 1 1 0.0
2 0.1 oops 1 1 0.1
3 0.2
4 0.3 0.3 1 1 0.3
`
	var buf bytes.Buffer
	tab, err := Read(strings.NewReader(input), "mem", Options{
		Columns: []int{5, 1, 2},
		Logger:  quietLogger(&buf),
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(tab.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tab.Rows))
	}
	if tab.Skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", tab.Skipped)
	}
	if tab.Rows[1][0] != 0.3 || tab.Rows[1][1] != 0.3 {
		t.Errorf("unexpected row: %v", tab.Rows[1])
	}
	if strings.Count(buf.String(), "warning:") != 2 {
		t.Errorf("expected 2 warnings, got log %q", buf.String())
	}
	if !strings.Contains(buf.String(), "mem:3") {
		t.Errorf("expected warning to carry file and line, got %q", buf.String())
	}
}

func TestReadHeaderAndComma(t *testing.T) {
	input := "dt,ecm_verlet,ecm_beeman\n0.01,1e-3,1e-5\n0.001,1e-5,1e-9\n"

	tab, err := Read(strings.NewReader(input), "mem", Options{Comma: ',', Header: true})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(tab.Header) != 3 || tab.Header[2] != "ecm_beeman" {
		t.Errorf("unexpected header: %v", tab.Header)
	}
	if tab.Index("ecm_verlet") != 1 {
		t.Errorf("expected ecm_verlet at 1, got %d", tab.Index("ecm_verlet"))
	}
	if tab.Index("missing") != -1 {
		t.Error("expected -1 for missing column")
	}

	col := tab.Column(0)
	if len(col) != 2 || col[1] != 0.001 {
		t.Errorf("unexpected column: %v", col)
	}
}

func TestReadEmpty(t *testing.T) {
	var buf bytes.Buffer
	_, err := Read(strings.NewReader("header only\n"), "mem", Options{Logger: quietLogger(&buf)})
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestReadFileGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traj.txt.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	zw.Write([]byte("0 1 2\n1 2 3\n"))
	zw.Close()
	f.Close()

	tab, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(tab.Rows) != 2 || tab.Rows[1][2] != 3 {
		t.Errorf("unexpected rows: %v", tab.Rows)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLineErrorUnwrap(t *testing.T) {
	err := &LineError{Path: "a.txt", Line: 7, Err: ErrFieldCount}
	if !errors.Is(err, ErrFieldCount) {
		t.Error("LineError should unwrap to its cause")
	}
	if err.Error() != "a.txt:7: table: not enough fields" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
