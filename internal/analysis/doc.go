// Package analysis estimates frequency content of uniformly sampled signals.
//
//   - [PowerSpectrum]: one-sided power spectrum with frequencies in Hz
//   - [DominantFrequency]: strongest non-DC frequency, refined by parabolic
//     interpolation on a zero-padded spectrum
package analysis
