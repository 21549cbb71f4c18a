package integrators

// Beeman integrates positions explicitly and solves the velocity update
// implicitly for the damping term. a(-dt) is taken equal to a(0).
type Beeman struct {
	osc   Damped
	dt    float64
	r, v  float64
	a     float64
	aPrev float64
}

func NewBeeman(osc Damped, dt float64) *Beeman {
	return &Beeman{osc: osc, dt: dt}
}

func (b *Beeman) Name() string { return "beeman" }

func (b *Beeman) Reset(r0, v0 float64) {
	b.r, b.v = r0, v0
	b.a = b.osc.Accel(r0, v0)
	b.aPrev = b.a
}

func (b *Beeman) Step() {
	m, k, g, dt := b.osc.M, b.osc.K, b.osc.Gamma, b.dt

	r := b.r + b.v*dt + (2.0/3.0)*b.a*dt*dt - (1.0/6.0)*b.aPrev*dt*dt
	v := (b.v - k*dt/(3*m)*r + (5.0/6.0)*b.a*dt - (1.0/6.0)*b.aPrev*dt) / (1 + g*dt/(3*m))

	b.aPrev = b.a
	b.r, b.v = r, v
	b.a = b.osc.Accel(r, v)
}

func (b *Beeman) Position() float64 { return b.r }
func (b *Beeman) Velocity() float64 { return b.v }
