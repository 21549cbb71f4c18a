// Package lattice reads spin-lattice Monte Carlo snapshots and particle
// snapshots of the event-driven simulator, and renders them as animated
// GIFs.
package lattice

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/san-kum/simstats/internal/table"
)

var (
	ErrNoFrames = errors.New("lattice: no frames")
	ErrNoSize   = errors.New("lattice: no N in config")
)

// Frame is one N x N spin configuration after MCS Monte Carlo steps.
type Frame struct {
	MCS   int
	Spins [][]int8
}

func (f *Frame) Size() int { return len(f.Spins) }

// Magnetization is the mean spin.
func (f *Frame) Magnetization() float64 {
	var sum, n int
	for _, row := range f.Spins {
		for _, s := range row {
			sum += int(s)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// ReadSize finds the lattice side in a ".properties" file ("N=50") or an
// INI-style file ("N = 50").
func ReadSize(path string) (int, error) {
	rc, err := table.Open(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), "=")
		if !ok || strings.TrimSpace(key) != "N" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%s: invalid N %q", path, strings.TrimSpace(val))
		}
		return n, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%s: %w", path, ErrNoSize)
}

// LoadFrames reads every frame of a results file.
func LoadFrames(path string, size int, lg *log.Logger) ([]*Frame, error) {
	rc, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadFrames(rc, path, size, lg)
}

// ReadFrames parses blocks introduced by "MCS=<n>" followed by size rows of
// size spins. Extra rows or columns are ignored; missing ones stay 0.
// Unparseable spins are warned about and left 0.
func ReadFrames(r io.Reader, name string, size int, lg *log.Logger) ([]*Frame, error) {
	if size <= 0 {
		return nil, fmt.Errorf("lattice: invalid size %d", size)
	}
	if lg == nil {
		lg = log.Default()
	}

	var frames []*Frame
	var cur *Frame
	row := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(text, "MCS="); ok {
			mcs, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				lg.Printf("warning: skipping %v", &table.LineError{Path: name, Line: line, Err: err})
				cur = nil
				continue
			}
			cur = &Frame{MCS: mcs, Spins: make([][]int8, size)}
			for i := range cur.Spins {
				cur.Spins[i] = make([]int8, size)
			}
			frames = append(frames, cur)
			row = 0
			continue
		}
		if cur == nil || row >= size {
			continue
		}
		for j, f := range strings.Fields(text) {
			if j >= size {
				break
			}
			v, err := strconv.Atoi(f)
			if err != nil {
				lg.Printf("warning: %v", &table.LineError{Path: name, Line: line, Err: err})
				continue
			}
			cur.Spins[row][j] = int8(v)
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoFrames)
	}
	return frames, nil
}

// FindFrame returns the frame with the given MCS, or the last frame at or
// before it.
func FindFrame(frames []*Frame, mcs int) *Frame {
	var best *Frame
	for _, f := range frames {
		if f.MCS == mcs {
			return f
		}
		if f.MCS < mcs && (best == nil || f.MCS > best.MCS) {
			best = f
		}
	}
	if best == nil && len(frames) > 0 {
		return frames[0]
	}
	return best
}
