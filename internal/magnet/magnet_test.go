package magnet

import (
	"bytes"
	"errors"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var quiet = log.New(io.Discard, "", 0)

const header = "MCS\tMagnetizacion\tMagnetizacion2\tEstacionario\n"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseP(t *testing.T) {
	tests := []struct {
		name string
		want float64
		ok   bool
	}{
		{"magnetizacion_p0.1.txt", 0.1, true},
		{"/data/run/magnetizacion_p0.05.txt.gz", 0.05, true},
		{"magnetizacion_p1.0E-4.txt", 1e-4, true},
		{"magnetizacion.txt", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseP(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: expected (%v, %v), got (%v, %v)", tt.name, tt.want, tt.ok, got, ok)
		}
	}
}

func TestAnalyzeFlaggedWindow(t *testing.T) {
	body := header +
		"0\t1.0\t1.0\t0\n" +
		"1\t0.5\t0.25\t0\n" +
		"2\t-0.2\t0.04\t1\n" +
		"3\t0.4\t0.16\t1\n"
	path := writeFile(t, t.TempDir(), "magnetizacion_p0.3.txt", body)

	s, err := Load(path, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if s.P != 0.3 || s.Len() != 4 {
		t.Fatalf("expected p 0.3 with 4 rows, got p %v with %d", s.P, s.Len())
	}

	o, err := Analyze(s, 50, -1)
	if err != nil {
		t.Fatal(err)
	}
	if o.Samples != 2 {
		t.Errorf("expected 2 stationary samples, got %d", o.Samples)
	}
	if math.Abs(o.AvgMag-0.3) > 1e-12 {
		t.Errorf("expected <|M|> 0.3, got %v", o.AvgMag)
	}
	if math.Abs(o.AvgMagSquared-0.1) > 1e-12 {
		t.Errorf("expected <M^2> 0.1, got %v", o.AvgMagSquared)
	}
	if want := 2500 * (0.1 - 0.09); math.Abs(o.Susceptibility-want) > 1e-9 {
		t.Errorf("expected chi %v, got %v", want, o.Susceptibility)
	}
}

func TestWindowFallbacks(t *testing.T) {
	s := &Series{
		MCS:        []float64{0, 1, 2, 3, 4, 5},
		Mag:        make([]float64, 6),
		MagSquared: make([]float64, 6),
		Stationary: make([]bool, 6),
	}

	if got := s.Window(-1); len(got) != 3 || got[0] != 3 {
		t.Errorf("expected second half [3 4 5], got %v", got)
	}
	if got := s.Window(5); len(got) != 1 || got[0] != 5 {
		t.Errorf("expected [5], got %v", got)
	}
	if got := s.Window(10); len(got) != 0 {
		t.Errorf("expected empty window, got %v", got)
	}

	if _, err := Analyze(s, 50, 10); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestAnalyzeGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "magnetizacion_p0.9.txt", header+"0\t0.1\t0.01\t1\n")
	writeFile(t, dir, "magnetizacion_p0.1.txt", header+"0\t0.9\t0.81\t1\n")
	writeFile(t, dir, "magnetizacion_p0.5.txt", header)
	writeFile(t, dir, "magnetizacion_summary.txt", header+"0\t0.9\t0.81\t1\n")

	var buf bytes.Buffer
	obs, series, err := AnalyzeGlob([]string{filepath.Join(dir, "magnetizacion_*.txt")}, Options{
		Size: 50, From: -1, Logger: log.New(&buf, "", 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 2 || len(series) != 2 {
		t.Fatalf("expected 2 results, got %d", len(obs))
	}
	if obs[0].P != 0.1 || obs[1].P != 0.9 {
		t.Errorf("expected results sorted by p, got %v, %v", obs[0].P, obs[1].P)
	}
	if series[0].P != 0.1 {
		t.Errorf("expected series sorted by p, got %v", series[0].P)
	}
	if !strings.Contains(buf.String(), "no p in file name") {
		t.Errorf("expected warning for summary file, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "magnetizacion_p0.5.txt") {
		t.Errorf("expected warning for empty file, got %q", buf.String())
	}

	var out bytes.Buffer
	if err := WriteSummary(&out, obs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || lines[0] != "p,avg_mag,avg_mag_squared,susceptibility" {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "0.1,0.9,0.81,") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestMarkStationary(t *testing.T) {
	body := header +
		"0\t1.0\t1.0\t0\n" +
		"10\t0.5\t0.25\t0\n" +
		"20\t0.2\t0.04\t1\n" +
		"30\t0.4\t0.16\t0\n"
	path := writeFile(t, t.TempDir(), "magnetizacion_p0.2.txt", body)

	n, err := MarkStationary(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows marked, got %d", n)
	}

	s, err := Load(path, quiet)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{false, true, true, true}
	for i, st := range s.Stationary {
		if st != want[i] {
			t.Errorf("row %d: expected stationary %v, got %v", i, want[i], st)
		}
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), header) {
		t.Error("header was not preserved")
	}
}
