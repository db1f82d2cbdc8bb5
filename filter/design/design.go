// Package design provides the biquad coefficient design entry points the
// engine exposes: identity, lowpass, highpass, and bandpass.
//
// Frequencies are sample-rate-normalized: a value of 0.25 is half of Nyquist,
// regardless of the engine's configured rate. Callers holding a frequency in
// Hz divide by config.SampleRate first. The returned [biquad.Config] is the
// only data exchanged with the runtime filter.
//
// The formulas follow the Audio EQ Cookbook (RBJ).
package design

import (
	"math"

	"github.com/yukie-nobuharu/synthizer/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Identity returns a config that passes audio through unchanged.
func Identity() biquad.Config {
	return biquad.Config{B0: 1, Gain: 1}
}

// Lowpass designs a lowpass biquad at the given normalized frequency with
// quality factor q. Out-of-range parameters fall back to the identity filter
// rather than producing an unstable section.
func Lowpass(frequency, q float64) biquad.Config {
	w0, ok := normalizedW0(frequency)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// Highpass designs a highpass biquad at the given normalized frequency with
// quality factor q.
func Highpass(frequency, q float64) biquad.Config {
	w0, ok := normalizedW0(frequency)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := (1 + cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// Bandpass designs a constant-peak-gain bandpass biquad centered at the given
// normalized frequency. bandwidth is the width between -3 dB points in
// octaves.
func Bandpass(frequency, bandwidth float64) biquad.Config {
	w0, ok := normalizedW0(frequency)
	if !ok || bandwidth <= 0 || math.IsNaN(bandwidth) || math.IsInf(bandwidth, 0) {
		return Identity()
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw * math.Sinh(math.Ln2/2*bandwidth*w0/sw)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

func normalizedW0(frequency float64) (float64, bool) {
	if frequency <= 0 || frequency >= 0.5 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return 0, false
	}

	return 2 * math.Pi * frequency, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Config {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Identity()
	}

	return biquad.Config{
		B0:   b0 / a0,
		B1:   b1 / a0,
		B2:   b2 / a0,
		A1:   a1 / a0,
		A2:   a2 / a0,
		Gain: 1,
	}
}
