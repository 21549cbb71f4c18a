// Package integrators implements fixed-step time integrators for the damped
// harmonic oscillator m r'' = -k r - gamma r'.
//
// Verlet, Beeman and Gear5 are written against the oscillator's linear
// force so their implicit velocity terms can be solved exactly. Euler, RK4
// and RK45 step any first-order System and are wrapped by Explicit.
package integrators

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknown = errors.New("integrators: unknown integrator")

type State []float64

func (s State) Clone() State {
	out := make(State, len(s))
	copy(out, s)
	return out
}

// System is a first-order ODE x' = f(x, t).
type System interface {
	Derive(x State, t float64) State
}

// Stepper advances a System by one step of size dt.
type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

// Integrator follows a single oscillator trajectory with a fixed step.
type Integrator interface {
	Name() string
	Reset(r0, v0 float64)
	Step()
	Position() float64
	Velocity() float64
}

// Damped holds the oscillator parameters.
type Damped struct {
	M     float64
	K     float64
	Gamma float64
}

func (d Damped) Accel(r, v float64) float64 {
	return (-d.K*r - d.Gamma*v) / d.M
}

// Derive implements System over the state (r, v).
func (d Damped) Derive(x State, t float64) State {
	return State{x[1], d.Accel(x[0], x[1])}
}

type factory func(osc Damped, dt float64) Integrator

var registry = map[string]factory{
	"verlet": func(o Damped, dt float64) Integrator { return NewVerlet(o, dt) },
	"beeman": func(o Damped, dt float64) Integrator { return NewBeeman(o, dt) },
	"gear5":  func(o Damped, dt float64) Integrator { return NewGear5(o, dt) },
	"euler":  func(o Damped, dt float64) Integrator { return NewExplicit("euler", NewEuler(), o, dt) },
	"rk4":    func(o Damped, dt float64) Integrator { return NewExplicit("rk4", NewRK4(), o, dt) },
	"rk45":   func(o Damped, dt float64) Integrator { return NewExplicit("rk45", NewRK45(), o, dt) },
}

// New returns the named integrator for osc with step dt.
func New(name string, osc Damped, dt float64) (Integrator, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknown, name, Names())
	}
	return f(osc, dt), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
