// Package oscillator compares time integrators on a damped harmonic
// oscillator with a closed-form solution.
package oscillator

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/simstats/internal/integrators"
)

var (
	// ErrOverdamped indicates parameters without an oscillating solution.
	ErrOverdamped = errors.New("oscillator: parameters are not underdamped")

	ErrInvalidStep = errors.New("oscillator: invalid time step")
)

type Params struct {
	M     float64 `yaml:"mass"`
	K     float64 `yaml:"k"`
	Gamma float64 `yaml:"gamma"`
	Tf    float64 `yaml:"tf"`
	R0    float64 `yaml:"r0"`
}

func DefaultParams() Params {
	return Params{M: 70, K: 10000, Gamma: 100, Tf: 5, R0: 1}
}

// V0 is the initial velocity -r0 gamma / 2m, which makes the analytic
// solution a pure damped cosine.
func (p Params) V0() float64 {
	return -p.R0 * p.Gamma / (2 * p.M)
}

// Omega is the damped angular frequency.
func (p Params) Omega() float64 {
	return math.Sqrt(p.K/p.M - p.Gamma*p.Gamma/(4*p.M*p.M))
}

func (p Params) Validate() error {
	if p.M <= 0 || p.K <= 0 || p.Gamma < 0 || p.Tf <= 0 {
		return fmt.Errorf("oscillator: invalid parameters m=%g k=%g gamma=%g tf=%g", p.M, p.K, p.Gamma, p.Tf)
	}
	if p.K/p.M <= p.Gamma*p.Gamma/(4*p.M*p.M) {
		return fmt.Errorf("%w: k/m=%g, (gamma/2m)^2=%g", ErrOverdamped, p.K/p.M, p.Gamma*p.Gamma/(4*p.M*p.M))
	}
	return nil
}

// Analytic returns r(t) = r0 exp(-gamma t / 2m) cos(omega t).
func (p Params) Analytic(t float64) float64 {
	return p.R0 * math.Exp(-p.Gamma*t/(2*p.M)) * math.Cos(p.Omega()*t)
}

func (p Params) damped() integrators.Damped {
	return integrators.Damped{M: p.M, K: p.K, Gamma: p.Gamma}
}

// Steps is the number of steps of size dt that fit in [0, tf].
func (p Params) Steps(dt float64) int {
	return int(math.Floor(p.Tf/dt + 1e-9))
}
