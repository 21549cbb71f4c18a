package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

var ErrShortSignal = errors.New("analysis: signal too short")

// DefaultPad zero-pads signals to at least this many times their length
// before looking for a peak.
const DefaultPad = 8

// PowerSpectrum returns |X_k|²/n for k = 0..n/2 of the mean-removed signal
// sampled every dt, together with the frequencies k/(n dt).
func PowerSpectrum(data []float64, dt float64) (freqs, power []float64) {
	n := len(data)
	if n == 0 || !(dt > 0) {
		return nil, nil
	}
	x := make([]float64, n)
	copy(x, data)
	floats.AddConst(-floats.Sum(x)/float64(n), x)

	spec := fft.FFTReal(x)
	half := n/2 + 1
	freqs = make([]float64, half)
	power = make([]float64, half)
	for k := 0; k < half; k++ {
		a := cmplx.Abs(spec[k])
		freqs[k] = float64(k) / (float64(n) * dt)
		power[k] = a * a / float64(n)
	}
	return freqs, power
}

// DominantFrequency returns the frequency in Hz of the largest non-DC peak.
// pad <= 0 uses DefaultPad.
func DominantFrequency(data []float64, dt float64, pad int) (float64, error) {
	if len(data) < 4 || !(dt > 0) {
		return 0, ErrShortSignal
	}
	if pad <= 0 {
		pad = DefaultPad
	}
	n := 1
	for n < pad*len(data) {
		n <<= 1
	}

	mean := floats.Sum(data) / float64(len(data))
	x := make([]float64, n)
	for i, v := range data {
		x[i] = v - mean
	}
	freqs, power := PowerSpectrum(x, dt)

	k := floats.MaxIdx(power[1:]) + 1
	df := freqs[1] - freqs[0]
	if k+1 >= len(power) {
		return freqs[k], nil
	}

	// Vertex of the parabola through the peak and its neighbours.
	a, b, c := power[k-1], power[k], power[k+1]
	den := a - 2*b + c
	shift := 0.0
	if den != 0 {
		shift = 0.5 * (a - c) / den
	}
	return freqs[k] + math.Max(-0.5, math.Min(0.5, shift))*df, nil
}
