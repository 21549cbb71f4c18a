package integrators

// Verlet is the original position Verlet scheme. The damping force uses the
// centred velocity (r(t+dt) - r(t-dt)) / 2dt, which is linear in r(t+dt)
// and solved in closed form.
type Verlet struct {
	osc  Damped
	dt   float64
	r    float64
	prev float64
	v    float64
}

func NewVerlet(osc Damped, dt float64) *Verlet {
	return &Verlet{osc: osc, dt: dt}
}

func (v *Verlet) Name() string { return "verlet" }

// Reset seeds r(-dt) from a second-order Taylor expansion.
func (v *Verlet) Reset(r0, v0 float64) {
	a0 := v.osc.Accel(r0, v0)
	v.r = r0
	v.v = v0
	v.prev = r0 - v0*v.dt + 0.5*a0*v.dt*v.dt
}

func (v *Verlet) Step() {
	m, k, g, dt := v.osc.M, v.osc.K, v.osc.Gamma, v.dt
	damp := g * dt / (2 * m)

	next := (2*v.r - v.prev - k*dt*dt/m*v.r + damp*v.prev) / (1 + damp)

	v.v = (next - v.prev) / (2 * dt)
	v.prev, v.r = v.r, next
}

func (v *Verlet) Position() float64 { return v.r }

// Velocity is the centred estimate at the previous step.
func (v *Verlet) Velocity() float64 { return v.v }
