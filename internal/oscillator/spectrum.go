package oscillator

import (
	"math"

	"github.com/san-kum/simstats/internal/analysis"
)

// Frequencies holds angular frequencies recovered from sampled positions.
type Frequencies struct {
	Expected float64   // damped angular frequency of the model
	Analytic float64   // estimated from the analytic samples
	Methods  []float64 // estimated from each integrator, NaN when too short
}

// EstimateFrequencies finds the dominant angular frequency of every
// trajectory in run. A method whose phase drifts shows up as a shift
// from Expected.
func EstimateFrequencies(p Params, run *Comparison) (*Frequencies, error) {
	f, err := analysis.DominantFrequency(run.Analytic, run.Dt, 0)
	if err != nil {
		return nil, err
	}
	out := &Frequencies{
		Expected: p.Omega(),
		Analytic: 2 * math.Pi * f,
		Methods:  make([]float64, len(run.Methods)),
	}
	for j, pos := range run.Positions {
		fj, err := analysis.DominantFrequency(pos, run.Dt, 0)
		if err != nil {
			out.Methods[j] = math.NaN()
			continue
		}
		out.Methods[j] = 2 * math.Pi * fj
	}
	return out, nil
}
