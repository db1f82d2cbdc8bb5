package effects

import (
	"sync"

	"github.com/yukie-nobuharu/synthizer/filter/biquad"
)

// Properties is a concrete PropertySource: a small thread-safe property
// block that non-render goroutines set and the pipeline pulls once per
// block. A filter set between two Run calls is observed by exactly the next
// one.
type Properties struct {
	mu            sync.Mutex
	filter        biquad.Config
	filterChanged bool
	gain          float64
}

// NewProperties returns properties with unity gain and an identity filter.
func NewProperties() *Properties {
	return &Properties{
		filter: biquad.Config{B0: 1, Gain: 1},
		gain:   1,
	}
}

// SetFilter stores a new filter config and marks it changed.
func (p *Properties) SetFilter(c biquad.Config) {
	p.mu.Lock()
	p.filter = c
	p.filterChanged = true
	p.mu.Unlock()
}

// SetGain stores a new output gain.
func (p *Properties) SetGain(gain float64) {
	p.mu.Lock()
	p.gain = gain
	p.mu.Unlock()
}

// AcquireFilter returns the filter config and consumes the change flag.
func (p *Properties) AcquireFilter() (biquad.Config, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	changed := p.filterChanged
	p.filterChanged = false

	return p.filter, changed
}

// Gain returns the current output gain.
func (p *Properties) Gain() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.gain
}
