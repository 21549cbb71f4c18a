package integrators

// Explicit drives a generic Stepper over the oscillator state (r, v).
type Explicit struct {
	name    string
	stepper Stepper
	sys     System
	dt      float64
	t       float64
	x       State
}

func NewExplicit(name string, stepper Stepper, osc Damped, dt float64) *Explicit {
	return &Explicit{name: name, stepper: stepper, sys: osc, dt: dt, x: State{0, 0}}
}

func (e *Explicit) Name() string { return e.name }

func (e *Explicit) Reset(r0, v0 float64) {
	e.t = 0
	e.x = State{r0, v0}
}

func (e *Explicit) Step() {
	e.x = e.stepper.Step(e.sys, e.x, e.t, e.dt)
	e.t += e.dt
}

func (e *Explicit) Position() float64 { return e.x[0] }
func (e *Explicit) Velocity() float64 { return e.x[1] }
