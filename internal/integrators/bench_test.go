package integrators

import "testing"

func benchIntegrator(b *testing.B, name string) {
	integ, err := New(name, testOsc, 1e-4)
	if err != nil {
		b.Fatal(err)
	}
	integ.Reset(1, -testOsc.Gamma/(2*testOsc.M))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step()
	}
}

func BenchmarkEuler(b *testing.B)  { benchIntegrator(b, "euler") }
func BenchmarkRK4(b *testing.B)    { benchIntegrator(b, "rk4") }
func BenchmarkRK45(b *testing.B)   { benchIntegrator(b, "rk45") }
func BenchmarkVerlet(b *testing.B) { benchIntegrator(b, "verlet") }
func BenchmarkBeeman(b *testing.B) { benchIntegrator(b, "beeman") }
func BenchmarkGear5(b *testing.B)  { benchIntegrator(b, "gear5") }

type benchChain struct{}

func (benchChain) Derive(x State, t float64) State {
	dx := make(State, 20)
	for i := 0; i < 10; i++ {
		dx[i] = x[10+i]
		dx[10+i] = -x[i] * 0.1
	}
	return dx
}

func BenchmarkRK4_Chain10(b *testing.B) {
	integrator := NewRK4()
	x := make(State, 20)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(benchChain{}, x, 0, 0.001)
	}
}
