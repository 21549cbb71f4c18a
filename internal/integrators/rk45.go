package integrators

import "math"

// Dormand-Prince 5(4) tableau
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 takes fixed Dormand-Prince steps and keeps the embedded fourth-order
// error estimate of the last step.
type RK45 struct {
	lastErr float64
}

func NewRK45() *RK45 {
	return &RK45{}
}

// LastError is the largest absolute component of the embedded error
// estimate from the previous Step.
func (r *RK45) LastError() float64 { return r.lastErr }

func (r *RK45) Step(sys System, x State, t, dt float64) State {
	n := len(x)
	k := make([]State, 0, 7)

	stage := func(c float64, b ...float64) State {
		xs := x.Clone()
		for i := 0; i < n; i++ {
			for j, bj := range b {
				xs[i] += dt * bj * k[j][i]
			}
		}
		return sys.Derive(xs, t+c*dt)
	}

	k = append(k, sys.Derive(x, t))
	k = append(k, stage(a2, b21))
	k = append(k, stage(a3, b31, b32))
	k = append(k, stage(a4, b41, b42, b43))
	k = append(k, stage(a5, b51, b52, b53, b54))
	k = append(k, stage(1, b61, b62, b63, b64, b65))

	xNew := make(State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k[0][i]+c3*k[2][i]+c4*k[3][i]+c5*k[4][i]+c6*k[5][i])
	}
	k7 := sys.Derive(xNew, t+dt)

	r.lastErr = 0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k[0][i] + dc3*k[2][i] + dc4*k[3][i] + dc5*k[4][i] + dc6*k[5][i] + dc7*k7[i])
		r.lastErr = math.Max(r.lastErr, math.Abs(errEst))
	}

	return xNew
}
