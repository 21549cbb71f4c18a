package integrators

// gear5Alpha are the corrector coefficients for a second-order equation
// whose force depends on velocity.
var gear5Alpha = [6]float64{3.0 / 16.0, 251.0 / 360.0, 1, 11.0 / 18.0, 1.0 / 6.0, 1.0 / 60.0}

var factorial = [6]float64{1, 1, 2, 6, 24, 120}

// Gear5 is the fifth-order Gear predictor-corrector. d[q] holds the q-th
// time derivative of r.
type Gear5 struct {
	osc Damped
	dt  float64
	d   [6]float64
}

func NewGear5(osc Damped, dt float64) *Gear5 {
	return &Gear5{osc: osc, dt: dt}
}

func (g *Gear5) Name() string { return "gear5" }

// Reset derives the higher derivatives from the equation of motion:
// d[q] = (-k d[q-2] - gamma d[q-1]) / m.
func (g *Gear5) Reset(r0, v0 float64) {
	g.d[0], g.d[1] = r0, v0
	for q := 2; q < 6; q++ {
		g.d[q] = (-g.osc.K*g.d[q-2] - g.osc.Gamma*g.d[q-1]) / g.osc.M
	}
}

func (g *Gear5) Step() {
	dt := g.dt

	var p [6]float64
	for q := 0; q < 6; q++ {
		pow := 1.0
		for j := q; j < 6; j++ {
			p[q] += g.d[j] * pow / factorial[j-q]
			pow *= dt
		}
	}

	da := g.osc.Accel(p[0], p[1]) - p[2]
	dR2 := da * dt * dt / 2

	pow := 1.0
	for q := 0; q < 6; q++ {
		g.d[q] = p[q] + gear5Alpha[q]*dR2*factorial[q]/pow
		pow *= dt
	}
}

func (g *Gear5) Position() float64 { return g.d[0] }
func (g *Gear5) Velocity() float64 { return g.d[1] }
