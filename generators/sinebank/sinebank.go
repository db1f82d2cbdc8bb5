// Package sinebank generates audio as a sum of sine partials: a fundamental
// frequency plus a set of waves at multiples of it. Harmonic series builders
// for the classic waveforms are provided, with Lanczos sigma approximation
// to tame the Gibbs phenomenon of truncated Fourier series.
package sinebank

import (
	"fmt"
	"math"

	"github.com/yukie-nobuharu/synthizer/config"
)

// Wave is one partial: a frequency multiplier on the bank's fundamental, a
// phase offset in [0, 1), and a linear gain.
type Wave struct {
	FreqMul float64
	Phase   float64
	Gain    float64
}

// Bank is an additive sine generator producing mono blocks. As with every
// producer in the signal path, the bank adds into its destination.
type Bank struct {
	frequency float64
	waves     []Wave
	phases    []float64
}

// New returns a bank with the given fundamental frequency in Hz and no
// waves.
func New(frequency float64) (*Bank, error) {
	if frequency <= 0 || frequency >= config.SampleRate/2 {
		return nil, fmt.Errorf("sinebank fundamental must be in (0, %d): %f", config.SampleRate/2, frequency)
	}

	return &Bank{frequency: frequency}, nil
}

// AddWave appends a partial. Its phase accumulator starts at the wave's
// phase offset.
func (b *Bank) AddWave(w Wave) {
	b.waves = append(b.waves, w)
	b.phases = append(b.phases, w.Phase)
}

// Waves returns the configured partials.
func (b *Bank) Waves() []Wave {
	return b.waves
}

// SetFrequency changes the fundamental without resetting phase, so the
// change is click-free.
func (b *Bank) SetFrequency(frequency float64) error {
	if frequency <= 0 || frequency >= config.SampleRate/2 {
		return fmt.Errorf("sinebank fundamental must be in (0, %d): %f", config.SampleRate/2, frequency)
	}
	b.frequency = frequency

	return nil
}

// FillBlock adds config.BlockSize mono frames into dst and advances the
// phase accumulators. dst must hold at least config.BlockSize samples.
func (b *Bank) FillBlock(dst []float64) {
	if len(dst) < config.BlockSize {
		panic(fmt.Sprintf("sinebank: FillBlock needs %d samples, have %d", config.BlockSize, len(dst)))
	}

	for w := range b.waves {
		wave := &b.waves[w]
		phase := b.phases[w]
		delta := b.frequency * wave.FreqMul / config.SampleRate

		for i := 0; i < config.BlockSize; i++ {
			dst[i] += wave.Gain * math.Sin(2*math.Pi*phase)
			phase += delta
		}

		// Keep the accumulator small so precision does not degrade
		// over long runs.
		b.phases[w] = phase - math.Floor(phase)
	}
}

// Square returns the partial series of a square wave with the given number
// of odd harmonics, sigma-approximated and normalized to unity peak gain
// sum.
func Square(partials int) []Wave {
	waves := make([]Wave, 0, partials)
	for k := 0; k < partials; k++ {
		n := float64(2*k + 1)
		waves = append(waves, Wave{FreqMul: n, Gain: 1 / n})
	}

	sigmaApproximate(waves)
	normalizeSeries(waves)

	return waves
}

// Triangle returns the partial series of a triangle wave: odd harmonics with
// 1/n^2 gains and alternating sign, expressed as a half-cycle phase offset.
func Triangle(partials int) []Wave {
	waves := make([]Wave, 0, partials)
	for k := 0; k < partials; k++ {
		n := float64(2*k + 1)
		w := Wave{FreqMul: n, Gain: 1 / (n * n)}
		if k%2 == 1 {
			w.Phase = 0.5
		}
		waves = append(waves, w)
	}

	sigmaApproximate(waves)
	normalizeSeries(waves)

	return waves
}

// Sawtooth returns the partial series of a sawtooth wave: every harmonic
// with 1/n gain.
func Sawtooth(partials int) []Wave {
	waves := make([]Wave, 0, partials)
	for k := 0; k < partials; k++ {
		n := float64(k + 1)
		waves = append(waves, Wave{FreqMul: n, Gain: 1 / n})
	}

	sigmaApproximate(waves)
	normalizeSeries(waves)

	return waves
}

// sigmaApproximate multiplies each partial's gain by the Lanczos sigma
// factor at n*pi/(2m), m being one past the highest harmonic. Assumes waves
// are in increasing frequency order with integral multipliers.
func sigmaApproximate(waves []Wave) {
	if len(waves) == 0 {
		return
	}

	m := waves[len(waves)-1].FreqMul + 1
	for i := range waves {
		n := waves[i].FreqMul
		waves[i].Gain *= math.Sin(math.Pi * n / (2 * m))
	}
}

// normalizeSeries scales gains so they sum to 1.
func normalizeSeries(waves []Wave) {
	var sum float64
	for i := range waves {
		sum += waves[i].Gain
	}
	if sum == 0 {
		return
	}

	for i := range waves {
		waves[i].Gain /= sum
	}
}
