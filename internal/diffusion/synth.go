package diffusion

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/simstats/internal/trajectory"
)

// SynthOptions describes a set of synthetic two-dimensional random walks.
type SynthOptions struct {
	D            float64
	Trajectories int
	Steps        int
	Dt           float64

	// Irregular draws each time step from an exponential distribution with
	// mean Dt instead of using a fixed step.
	Irregular bool

	Seed uint64
}

// Synthesize generates Brownian trajectories with diffusion coefficient D.
// Each axis step is normal with variance 2 D dt, so MSD(t) = 4 D t.
func Synthesize(opts SynthOptions) ([]*trajectory.Trajectory, error) {
	if opts.D < 0 {
		return nil, fmt.Errorf("diffusion: negative diffusion coefficient %g", opts.D)
	}
	if opts.Trajectories < 1 || opts.Steps < 1 || !(opts.Dt > 0) {
		return nil, fmt.Errorf("diffusion: invalid synthesis parameters: %d trajectories, %d steps, dt %g",
			opts.Trajectories, opts.Steps, opts.Dt)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	out := make([]*trajectory.Trajectory, 0, opts.Trajectories)

	for k := 0; k < opts.Trajectories; k++ {
		t := make([]float64, opts.Steps+1)
		x := make([]float64, opts.Steps+1)
		y := make([]float64, opts.Steps+1)
		for i := 1; i <= opts.Steps; i++ {
			dt := opts.Dt
			if opts.Irregular {
				dt = opts.Dt * rng.ExpFloat64()
				if dt == 0 {
					dt = opts.Dt * 1e-6
				}
			}
			sigma := math.Sqrt(2 * opts.D * dt)
			t[i] = t[i-1] + dt
			x[i] = x[i-1] + sigma*rng.NormFloat64()
			y[i] = y[i-1] + sigma*rng.NormFloat64()
		}
		tr, _ := trajectory.New(fmt.Sprintf("synthetic-%03d", k), t, x, y)
		out = append(out, tr)
	}
	return out, nil
}
