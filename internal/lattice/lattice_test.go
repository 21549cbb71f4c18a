package lattice

import (
	"bytes"
	"errors"
	"image/gif"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var quiet = log.New(io.Discard, "", 0)

const results = `MCS=0
1 1 -1
-1 1 1
1 1 1
MCS=10
-1 -1 -1
-1 -1 -1
-1 -1 1
`

func TestReadFrames(t *testing.T) {
	frames, err := ReadFrames(strings.NewReader(results), "mem", 3, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1].MCS != 10 {
		t.Errorf("expected MCS 10, got %d", frames[1].MCS)
	}
	if diff := cmp.Diff([][]int8{{1, 1, -1}, {-1, 1, 1}, {1, 1, 1}}, frames[0].Spins); diff != "" {
		t.Errorf("spins mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		frame int
		want  float64
	}{
		{0, 5.0 / 9},
		{1, -7.0 / 9},
	}
	for _, tt := range tests {
		if got := frames[tt.frame].Magnetization(); got != tt.want {
			t.Errorf("frame %d: expected magnetization %v, got %v", tt.frame, tt.want, got)
		}
	}
}

func TestReadFramesEmpty(t *testing.T) {
	if _, err := ReadFrames(strings.NewReader("1 1\n1 1\n"), "mem", 2, quiet); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestFindFrame(t *testing.T) {
	frames := []*Frame{{MCS: 0}, {MCS: 10}, {MCS: 20}}
	if f := FindFrame(frames, 10); f.MCS != 10 {
		t.Errorf("expected exact match, got %d", f.MCS)
	}
	if f := FindFrame(frames, 15); f.MCS != 10 {
		t.Errorf("expected closest earlier frame 10, got %d", f.MCS)
	}
	if f := FindFrame(frames, -5); f.MCS != 0 {
		t.Errorf("expected first frame, got %d", f.MCS)
	}
}

func TestReadSize(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		want int
	}{
		{"config.properties", "p=0.1\nN=50\nMCS=1000\n", 50},
		{"config.ini", "[DEFAULT]\nN = 20\n", 20},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := ReadSize(path)
		if err != nil || got != tt.want {
			t.Errorf("%s: expected %d, got %d (%v)", tt.name, tt.want, got, err)
		}
	}

	path := filepath.Join(dir, "none.properties")
	os.WriteFile(path, []byte("p=0.1\n"), 0644)
	if _, err := ReadSize(path); !errors.Is(err, ErrNoSize) {
		t.Errorf("expected ErrNoSize, got %v", err)
	}
}

func TestReadSnapshots(t *testing.T) {
	input := `e0 0.0
p1 0.01 0.02 1.0 0.0
p2 -0.01 0.0 0.0 -1.0
e1 0.005
p1 0.015 0.02 1.0 0.0
p2 bogus
`
	var buf bytes.Buffer
	snaps, err := ReadSnapshots(strings.NewReader(input), "sim.txt", log.New(&buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[1].Event != 1 || snaps[1].Time != 0.005 {
		t.Errorf("unexpected second snapshot header %+v", snaps[1])
	}
	if len(snaps[0].Particles) != 2 || len(snaps[1].Particles) != 1 {
		t.Errorf("expected 2 and 1 particles, got %d and %d", len(snaps[0].Particles), len(snaps[1].Particles))
	}
	if want := (Particle{ID: 2, X: -0.01, VY: -1}); snaps[0].Particles[1] != want {
		t.Errorf("expected %+v, got %+v", want, snaps[0].Particles[1])
	}
	if !strings.Contains(buf.String(), "sim.txt:6") {
		t.Errorf("expected warning for line 6, got %q", buf.String())
	}
}

func TestEncodeFramesGIF(t *testing.T) {
	frames, err := ReadFrames(strings.NewReader(results), "mem", 3, quiet)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeFramesGIF(&buf, frames, 4, 10); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("invalid gif: %v", err)
	}
	if len(g.Image) != 2 || g.Delay[0] != 10 {
		t.Errorf("expected 2 frames at 10cs, got %d at %v", len(g.Image), g.Delay)
	}
	if b := g.Image[0].Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Errorf("expected 12x12 frames, got %v", b)
	}
	// frame 0, spin (0, 2) is -1 -> white
	if idx := g.Image[0].ColorIndexAt(9, 0); idx != 0 {
		t.Errorf("expected white for spin -1, got index %d", idx)
	}
}

func TestEncodeSnapshotsGIF(t *testing.T) {
	snaps := []Snapshot{
		{Event: 0, Particles: []Particle{{ID: 1, X: 0.02}}},
		{Event: 1, Particles: []Particle{{ID: 1, X: 0.03}}},
	}
	var buf bytes.Buffer
	if err := EncodeSnapshotsGIF(&buf, snaps, Scene{ContainerRadius: 0.05, ObstacleRadius: 0.005, Pixels: 120, FPS: 20}); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("invalid gif: %v", err)
	}
	if len(g.Image) != 2 {
		t.Errorf("expected 2 frames, got %d", len(g.Image))
	}
	// obstacle at the centre
	if idx := g.Image[0].ColorIndexAt(60, 60); idx != 2 {
		t.Errorf("expected obstacle colour at centre, got index %d", idx)
	}

	if err := EncodeSnapshotsGIF(&buf, nil, Scene{}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}
