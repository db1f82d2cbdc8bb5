// Package spectral computes magnitude spectra for verification of filters
// and generators. It is a test-support package, not part of the signal path.
package spectral

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Magnitude returns |X[k]| for the non-negative-frequency bins of signal,
// zero-padding to the next power of two. Returns nil if the transform cannot
// be planned.
func Magnitude(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	fftSize := nextPow2(len(signal))

	in := make([]complex128, fftSize)
	for i, x := range signal {
		in[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag
}

// Bin returns the spectrum bin index closest to the given normalized
// frequency (0.5 = Nyquist) for a transform of fftSize points.
func Bin(frequency float64, fftSize int) int {
	return int(math.Round(frequency * float64(fftSize)))
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}

	return size
}
