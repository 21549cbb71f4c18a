package lattice

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/san-kum/simstats/internal/table"
)

type Particle struct {
	ID     int
	X, Y   float64
	VX, VY float64
}

// Snapshot is the particle state after one collision event.
type Snapshot struct {
	Event     int
	Time      float64
	Particles []Particle
}

func LoadSnapshots(path string, lg *log.Logger) ([]Snapshot, error) {
	rc, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadSnapshots(rc, path, lg)
}

// ReadSnapshots parses "e<N> <time>" lines, each followed by
// "p<id> x y vx vy" lines. Malformed lines are skipped with a warning.
func ReadSnapshots(r io.Reader, name string, lg *log.Logger) ([]Snapshot, error) {
	if lg == nil {
		lg = log.Default()
	}

	var snaps []Snapshot
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		warn := func(err error) {
			lg.Printf("warning: skipping %v", &table.LineError{Path: name, Line: line, Err: err})
		}
		switch fields[0][0] {
		case 'e':
			if len(fields) < 2 {
				warn(fmt.Errorf("%w: event without time", table.ErrFieldCount))
				continue
			}
			vals, err := parseFields(fields[:2])
			if err != nil {
				warn(err)
				continue
			}
			snaps = append(snaps, Snapshot{Event: int(vals[0]), Time: vals[1]})
		case 'p':
			if len(snaps) == 0 {
				warn(fmt.Errorf("particle before first event"))
				continue
			}
			if len(fields) < 5 {
				warn(fmt.Errorf("%w: have %d, need 5", table.ErrFieldCount, len(fields)))
				continue
			}
			vals, err := parseFields(fields[:5])
			if err != nil {
				warn(err)
				continue
			}
			s := &snaps[len(snaps)-1]
			s.Particles = append(s.Particles, Particle{
				ID: int(vals[0]), X: vals[1], Y: vals[2], VX: vals[3], VY: vals[4],
			})
		default:
			warn(fmt.Errorf("unknown record %q", fields[0]))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoFrames)
	}
	return snaps, nil
}

func parseFields(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := table.ParseField(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
