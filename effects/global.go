package effects

import (
	"fmt"

	"github.com/yukie-nobuharu/synthizer/config"
	"github.com/yukie-nobuharu/synthizer/filter/biquad"
)

// Algorithm is the capability an effect implementation provides to the
// pipeline. RunEffect receives the block counter for time-dependent
// processing, the filtered input at the effect's channel count, and the
// caller's destination at its own channel count; the algorithm owns the
// up/down-mixing between the two. gain is the configured output scaling for
// this block.
type Algorithm interface {
	RunEffect(block, channels int, input []float64, outChannels int, dst []float64, gain float64)
}

// PropertySource is the pipeline's view of the external property system: a
// changed-since-last-pull filter config and the current gain. Both are read
// exactly once per block, at the start of Run.
type PropertySource interface {
	// AcquireFilter returns the filter config and whether it changed since
	// the previous call. The change flag is consumed by the call.
	AcquireFilter() (biquad.Config, bool)

	// Gain returns the current output gain.
	Gain() float64
}

// Global drives one effect algorithm once per audio block.
//
// The input buffer is sized for the worst case (BlockSize frames of
// MaxChannels samples) and reused forever; steady-state Run calls allocate
// nothing. The only allocating event is a channel-count change, which
// rebuilds the filter.
type Global struct {
	algorithm Algorithm
	props     PropertySource

	inputBuffer  []float64
	channels     int
	lastChannels int
	blockIndex   int

	filter *biquad.Filter
}

// NewGlobal returns a pipeline around the given algorithm and property
// source. channels is the effect's input channel count and may be zero (no
// filter is built until it becomes nonzero).
func NewGlobal(algorithm Algorithm, props PropertySource, channels int) (*Global, error) {
	if algorithm == nil {
		return nil, fmt.Errorf("effects: nil algorithm")
	}
	if props == nil {
		return nil, fmt.Errorf("effects: nil property source")
	}
	if channels < 0 || channels > config.MaxChannels {
		return nil, fmt.Errorf("effects: channel count must be in [0, %d]: %d", config.MaxChannels, channels)
	}

	return &Global{
		algorithm:   algorithm,
		props:       props,
		inputBuffer: make([]float64, config.BlockSize*config.MaxChannels),
		channels:    channels,
	}, nil
}

// InputBuffer exposes the accumulation target the routing subsystem writes
// into. Writes must happen on the render goroutine, strictly before Run for
// that block; the region in use is the first Channels()*config.BlockSize
// samples.
func (g *Global) InputBuffer() []float64 {
	return g.inputBuffer
}

// Channels returns the effect's current input channel count.
func (g *Global) Channels() int {
	return g.channels
}

// SetChannels reconfigures the input channel count between blocks. A change
// to a nonzero count invalidates the filter, which is rebuilt on the next
// Run. Panics outside [0, config.MaxChannels].
func (g *Global) SetChannels(channels int) {
	if channels < 0 || channels > config.MaxChannels {
		panic(fmt.Sprintf("effects: channel count must be in [0, %d]: %d", config.MaxChannels, channels))
	}
	g.channels = channels
}

// BlockIndex returns the number of completed Run calls.
func (g *Global) BlockIndex() int {
	return g.blockIndex
}

// Filter returns the current filter instance, or nil if none has been built
// yet. Exposed for inspection; the pipeline owns it exclusively.
func (g *Global) Filter() *biquad.Filter {
	return g.filter
}

// Run executes one block: rebuild the filter if the channel count changed,
// pull a pending filter config, filter the accumulated input in place, hand
// it to the algorithm, then zero the used region of the input buffer and
// advance the block counter.
//
// The reset happens after the algorithm runs, not before, so routing for the
// next block may begin accumulating as soon as Run returns.
//
// dst must hold at least outChannels*config.BlockSize samples and
// outChannels must be in (0, config.MaxChannels]; violations panic.
func (g *Global) Run(outChannels int, dst []float64) {
	if outChannels <= 0 || outChannels > config.MaxChannels {
		panic(fmt.Sprintf("effects: output channel count must be in (0, %d]: %d", config.MaxChannels, outChannels))
	}
	if len(dst) < outChannels*config.BlockSize {
		panic(fmt.Sprintf("effects: destination needs %d samples, have %d", outChannels*config.BlockSize, len(dst)))
	}

	if (g.filter == nil || g.channels != g.lastChannels) && g.channels != 0 {
		filter, err := biquad.NewFilter(g.channels)
		if err != nil {
			panic(err)
		}
		g.filter = filter
	}
	if g.filter != nil {
		if cfg, changed := g.props.AcquireFilter(); changed {
			g.filter.Configure(cfg)
		}
		g.filter.ProcessBlock(g.inputBuffer, g.inputBuffer, config.BlockSize)
	}
	g.lastChannels = g.channels

	g.algorithm.RunEffect(g.blockIndex, g.channels, g.inputBuffer, outChannels, dst, g.props.Gain())

	// Reset for next time. This has to live here rather than in the
	// router, because routers don't know about effects that have no routes
	// to them.
	used := g.channels * config.BlockSize
	for i := 0; i < used; i++ {
		g.inputBuffer[i] = 0
	}

	g.blockIndex++
}
