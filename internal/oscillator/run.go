package oscillator

import (
	"fmt"

	"github.com/san-kum/simstats/internal/integrators"
)

// Comparison holds every sampled position of one run at a fixed dt.
type Comparison struct {
	Dt        float64
	Methods   []string
	T         []float64
	Analytic  []float64
	Positions [][]float64 // one slice per method
	MSE       []float64   // one value per method
}

// Sample is one time step of a simulation.
type Sample struct {
	Step      int
	T         float64
	Analytic  float64
	Positions []float64
}

func newIntegrators(p Params, dt float64, names []string) ([]integrators.Integrator, error) {
	if !(dt > 0) || dt > p.Tf {
		return nil, fmt.Errorf("%w: %g", ErrInvalidStep, dt)
	}
	out := make([]integrators.Integrator, len(names))
	for i, name := range names {
		integ, err := integrators.New(name, p.damped(), dt)
		if err != nil {
			return nil, err
		}
		integ.Reset(p.R0, p.V0())
		out[i] = integ
	}
	return out, nil
}

// Simulate advances every named integrator from t=0 to tf and calls visit at
// each step, t = 0 included. It returns the mean squared error of each
// method against the analytic solution.
func Simulate(p Params, dt float64, names []string, visit func(Sample) error) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	integs, err := newIntegrators(p, dt, names)
	if err != nil {
		return nil, err
	}

	steps := p.Steps(dt)
	sums := make([]float64, len(integs))
	s := Sample{Positions: make([]float64, len(integs))}
	for i := 0; i <= steps; i++ {
		if i > 0 {
			for _, integ := range integs {
				integ.Step()
			}
		}
		s.Step = i
		s.T = float64(i) * dt
		s.Analytic = p.Analytic(s.T)
		for j, integ := range integs {
			r := integ.Position()
			s.Positions[j] = r
			d := r - s.Analytic
			sums[j] += d * d
		}
		if visit != nil {
			if err := visit(s); err != nil {
				return nil, err
			}
		}
	}

	for j := range sums {
		sums[j] /= float64(steps + 1)
	}
	return sums, nil
}

// Run executes the comparison and keeps every sample.
func Run(p Params, dt float64, names []string) (*Comparison, error) {
	run := &Comparison{
		Dt:        dt,
		Methods:   append([]string(nil), names...),
		Positions: make([][]float64, len(names)),
	}
	mse, err := Simulate(p, dt, names, func(s Sample) error {
		run.T = append(run.T, s.T)
		run.Analytic = append(run.Analytic, s.Analytic)
		for j, r := range s.Positions {
			run.Positions[j] = append(run.Positions[j], r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	run.MSE = mse
	return run, nil
}
