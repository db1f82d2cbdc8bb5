package effects

import (
	"fmt"

	"github.com/yukie-nobuharu/synthizer/config"
	"github.com/yukie-nobuharu/synthizer/mix"
)

const maxEchoDelayFrames = 4 * config.SampleRate

// Echo is a feedback echo Algorithm. It up/down-mixes the routed input to
// the destination channel count, runs one delay line per output channel, and
// adds the wet signal into the destination (the dry path reaches the output
// directly, outside the effect).
//
// The first block after creation fades in linearly to avoid a click when the
// effect is attached to an already-running graph.
type Echo struct {
	delayFrames int
	feedback    float64
	wet         float64

	lines [][]float64
	write int

	scratch []float64
}

// NewEcho returns an echo with the given delay in frames, feedback in
// [0, 0.99], and wet level in [0, 1].
func NewEcho(delayFrames int, feedback, wet float64) (*Echo, error) {
	if delayFrames <= 0 || delayFrames > maxEchoDelayFrames {
		return nil, fmt.Errorf("echo delay must be in (0, %d] frames: %d", maxEchoDelayFrames, delayFrames)
	}
	if feedback < 0 || feedback > 0.99 {
		return nil, fmt.Errorf("echo feedback must be in [0, 0.99]: %f", feedback)
	}
	if wet < 0 || wet > 1 {
		return nil, fmt.Errorf("echo wet level must be in [0, 1]: %f", wet)
	}

	return &Echo{
		delayFrames: delayFrames,
		feedback:    feedback,
		wet:         wet,
		scratch:     make([]float64, config.BlockSize*config.MaxChannels),
	}, nil
}

// RunEffect implements Algorithm.
func (e *Echo) RunEffect(block, channels int, input []float64, outChannels int, dst []float64, gain float64) {
	if len(e.lines) != outChannels {
		e.lines = make([][]float64, outChannels)
		for ch := range e.lines {
			e.lines[ch] = make([]float64, e.delayFrames)
		}
		e.write = 0
	}

	// Convert the routed input to the destination channel layout.
	work := e.scratch[:config.BlockSize*outChannels]
	for i := range work {
		work[i] = 0
	}
	if channels > 0 {
		mix.Channels(config.BlockSize, input, channels, work, outChannels)
	}

	for frame := 0; frame < config.BlockSize; frame++ {
		ramp := 1.0
		if block == 0 {
			ramp = float64(frame) / config.BlockSize
		}

		// The line length equals the delay, so the slot about to be
		// written holds the sample from exactly delayFrames ago.
		for ch := 0; ch < outChannels; ch++ {
			line := e.lines[ch]
			delayed := line[e.write]
			x := work[frame*outChannels+ch]
			line[e.write] = x + e.feedback*delayed
			dst[frame*outChannels+ch] += gain * ramp * e.wet * delayed
		}

		e.write++
		if e.write >= e.delayFrames {
			e.write = 0
		}
	}
}

// Reset clears all delay lines.
func (e *Echo) Reset() {
	for ch := range e.lines {
		for i := range e.lines[ch] {
			e.lines[ch][i] = 0
		}
	}
	e.write = 0
}
