package collision

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

	"github.com/google/go-cmp/cmp"
)

var quiet = log.New(io.Discard, "", 0)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFileNames(t *testing.T) {
	if got := CountsFile("res", 1); got != filepath.Join("res", "collisions_count_v1.0.txt") {
		t.Errorf("unexpected counts file %s", got)
	}
	if got := PressureFile("res", 2.5); got != filepath.Join("res", "pressure_time_v2.5.txt") {
		t.Errorf("unexpected pressure file %s", got)
	}
}

func TestTemperature(t *testing.T) {
	if got := Temperature(1, 3); got != 4.5 {
		t.Errorf("expected 4.5, got %v", got)
	}
}

func TestLoadCountsWithoutTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.txt")
	writeFile(t, path, "event first all\ne0 0 0\ne10 3 4\ne20 5 9\n")

	c, err := LoadCounts(path, 0.01, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0, 0.1, 0.2}, c.Time); diff != "" {
		t.Errorf("time mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 4, 9}, c.All); diff != "" {
		t.Errorf("all mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequency(t *testing.T) {
	// 20 rows at a constant rate of 5 collisions per unit time
	c := &Counts{Path: "mem"}
	for i := 0; i < 20; i++ {
		c.Time = append(c.Time, float64(i))
		c.All = append(c.All, 5*float64(i))
		c.First = append(c.First, float64(i))
		c.Event = append(c.Event, float64(i))
	}

	freq, std, err := c.Frequency(10)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(freq-5) > 1e-12 {
		t.Errorf("expected frequency 5, got %v", freq)
	}
	if std > 1e-12 {
		t.Errorf("expected zero spread for a constant rate, got %v", std)
	}

	// doubling the rate in the second half spreads the blocks
	for i := 10; i < 20; i++ {
		c.All[i] = 45 + 10*float64(i-9)
	}
	_, std, err = c.Frequency(10)
	if err != nil {
		t.Fatal(err)
	}
	if std <= 0 {
		t.Errorf("expected positive spread, got %v", std)
	}
}

func TestFrequencyNoDuration(t *testing.T) {
	c := &Counts{Path: "mem", Time: []float64{1, 1}, All: []float64{0, 3}, First: []float64{0, 1}, Event: []float64{0, 1}}
	if _, _, err := c.Frequency(10); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestFirstCurve(t *testing.T) {
	c := &Counts{
		Time:  []float64{0, 1, 2, 3, 4},
		First: []float64{0, 100, 199, 200, 250},
	}
	ts, first := c.FirstCurve(200)
	if diff := cmp.Diff([]float64{0, 100, 199, 200}, first); diff != "" {
		t.Errorf("first mismatch (-want +got):\n%s", diff)
	}
	if len(ts) != 4 {
		t.Errorf("expected 4 times, got %d", len(ts))
	}

	_, first = c.FirstCurve(1000)
	if len(first) != 5 {
		t.Errorf("expected full curve when limit is never reached, got %d", len(first))
	}
}

func TestAnalyzeCountsSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, CountsFile(dir, 1), "event first all time\ne0 0 0 0.0\ne1 1 2 1.0\ne2 2 4 2.0\n")

	var buf bytes.Buffer
	points, err := AnalyzeCounts(dir, []float64{1, 3}, Options{Mass: 1, Blocks: 1, Logger: log.New(&buf, "", 0)})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].V != 1 {
		t.Fatalf("expected only v=1, got %+v", points)
	}
	if points[0].Freq != 2 || points[0].Temperature != 0.5 {
		t.Errorf("expected freq 2 at T 0.5, got %v at %v", points[0].Freq, points[0].Temperature)
	}
	if !strings.Contains(buf.String(), "v=3") {
		t.Errorf("expected warning for v=3, got %q", buf.String())
	}

	if _, err := AnalyzeCounts(t.TempDir(), []float64{1}, Options{Mass: 1, Logger: quiet}); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestPressure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, PressureFile(dir, 1), "time pressure_obstacle pressure_walls\n"+
		"0 10 10\n"+
		"1 1 2\n"+
		"2 2 3\n"+
		"3 1 4\n")

	p, err := LoadPressure(PressureFile(dir, 1), quiet)
	if err != nil {
		t.Fatal(err)
	}
	mean, std, err := p.Stats(1)
	if err != nil {
		t.Fatal(err)
	}
	// totals 3, 5, 5
	if math.Abs(mean-13.0/3) > 1e-12 {
		t.Errorf("expected mean 13/3, got %v", mean)
	}
	if want := math.Sqrt(8.0 / 9); math.Abs(std-want) > 1e-12 {
		t.Errorf("expected std %v, got %v", want, std)
	}

	if _, _, err := p.Stats(10); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData past the end, got %v", err)
	}

	points, err := AnalyzePressure(dir, []float64{1, 6}, 1, Options{Mass: 2, Logger: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].Temperature != 1 {
		t.Errorf("expected one point at T=1, got %+v", points)
	}
}
