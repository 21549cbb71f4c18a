package integrators

import (
	"errors"
	"math"
	"testing"
)

var testOsc = Damped{M: 70, K: 10000, Gamma: 100}

func analytic(osc Damped, t float64) float64 {
	omega := math.Sqrt(osc.K/osc.M - osc.Gamma*osc.Gamma/(4*osc.M*osc.M))
	return math.Exp(-osc.Gamma/(2*osc.M)*t) * math.Cos(omega*t)
}

// maxError integrates up to tf and returns the largest deviation from the
// analytic position.
func maxError(integ Integrator, osc Damped, dt, tf float64) float64 {
	integ.Reset(1, -osc.Gamma/(2*osc.M))
	steps := int(math.Round(tf / dt))
	worst := 0.0
	for i := 1; i <= steps; i++ {
		integ.Step()
		worst = math.Max(worst, math.Abs(integ.Position()-analytic(osc, float64(i)*dt)))
	}
	return worst
}

func TestIntegratorAccuracy(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		tol  float64
	}{
		{"verlet", 1e-3, 1e-2},
		{"beeman", 1e-3, 1e-2},
		{"gear5", 1e-3, 1e-4},
		{"rk4", 1e-3, 1e-4},
		{"rk45", 1e-3, 1e-4},
		{"euler", 1e-4, 5e-2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ, err := New(tt.name, testOsc, tt.dt)
			if err != nil {
				t.Fatal(err)
			}
			if integ.Name() != tt.name {
				t.Errorf("expected name %s, got %s", tt.name, integ.Name())
			}
			if e := maxError(integ, testOsc, tt.dt, 1); e > tt.tol {
				t.Errorf("max error %.3e exceeds %.1e", e, tt.tol)
			}
		})
	}
}

func TestVerletSecondOrder(t *testing.T) {
	coarse := maxError(NewVerlet(testOsc, 1e-3), testOsc, 1e-3, 1)
	fine := maxError(NewVerlet(testOsc, 1e-4), testOsc, 1e-4, 1)

	if ratio := coarse / fine; ratio < 50 {
		t.Errorf("expected error to shrink ~100x for 10x smaller dt, got %.1fx", ratio)
	}
}

func TestGearBeatsVerlet(t *testing.T) {
	gear := maxError(NewGear5(testOsc, 1e-3), testOsc, 1e-3, 1)
	verlet := maxError(NewVerlet(testOsc, 1e-3), testOsc, 1e-3, 1)
	if gear >= verlet {
		t.Errorf("expected gear5 (%.3e) more accurate than verlet (%.3e)", gear, verlet)
	}
}

func TestResetRestarts(t *testing.T) {
	for _, name := range Names() {
		integ, _ := New(name, testOsc, 1e-3)

		integ.Reset(1, 0)
		for i := 0; i < 10; i++ {
			integ.Step()
		}
		first := integ.Position()

		integ.Reset(1, 0)
		if integ.Position() != 1 || integ.Velocity() != 0 {
			t.Errorf("%s: reset did not restore (1, 0), got (%v, %v)", name, integ.Position(), integ.Velocity())
		}
		for i := 0; i < 10; i++ {
			integ.Step()
		}
		if integ.Position() != first {
			t.Errorf("%s: expected %v after restart, got %v", name, first, integ.Position())
		}
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("leapfrog", testOsc, 1e-3); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestRK45ErrorEstimate(t *testing.T) {
	r := NewRK45()
	x := State{1, 0}
	r.Step(testOsc, x, 0, 1e-2)
	coarse := r.LastError()
	r.Step(testOsc, x, 0, 1e-3)
	fine := r.LastError()

	if !(coarse > fine) || fine <= 0 {
		t.Errorf("expected error estimate to shrink with dt, got %e then %e", coarse, fine)
	}
}
