package biquad

import "fmt"

// Filter is a multichannel biquad over interleaved audio blocks: one Section
// of state per channel, all channels sharing one coefficient set. This is the
// processing interface the effect pipeline instantiates per channel count.
type Filter struct {
	sections []Section
}

// NewFilter returns a Filter for the given channel count, configured as an
// identity filter until Configure is called.
func NewFilter(channels int) (*Filter, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("biquad filter channel count must be > 0: %d", channels)
	}

	f := &Filter{sections: make([]Section, channels)}
	for i := range f.sections {
		f.sections[i].Config = Config{B0: 1, Gain: 1}
	}

	return f, nil
}

// Channels returns the channel count the filter was built for.
func (f *Filter) Channels() int {
	return len(f.sections)
}

// Configure replaces the coefficients on every channel. Delay-line state is
// preserved, avoiding the output discontinuity that a fresh zero-state filter
// would produce mid-stream.
func (f *Filter) Configure(c Config) {
	for i := range f.sections {
		f.sections[i].Config = c
	}
}

// ProcessBlock filters frames interleaved frames from src into dst. dst and
// src may be the same slice for in-place operation; both must hold at least
// frames*Channels() samples or the call panics.
func (f *Filter) ProcessBlock(dst, src []float64, frames int) {
	channels := len(f.sections)
	n := frames * channels
	if len(src) < n || len(dst) < n {
		panic(fmt.Sprintf("biquad: ProcessBlock needs %d samples, have dst %d src %d", n, len(dst), len(src)))
	}

	for ch := range f.sections {
		s := &f.sections[ch]
		b0, b1, b2 := s.B0, s.B1, s.B2
		a1, a2 := s.A1, s.A2
		g := s.Gain
		d0, d1 := s.d0, s.d1

		for i := ch; i < n; i += channels {
			x := src[i]
			y := b0*x + d0
			d0 = b1*x - a1*y + d1
			d1 = b2*x - a2*y
			dst[i] = g * y
		}

		s.d0, s.d1 = d0, d1
	}
}

// Reset clears the delay-line state of every channel.
func (f *Filter) Reset() {
	for i := range f.sections {
		f.sections[i].Reset()
	}
}

// Section returns a pointer to the i-th channel's section for inspection.
func (f *Filter) Section(i int) *Section {
	return &f.sections[i]
}
