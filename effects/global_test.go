package effects

import (
	"math"
	"testing"

	"github.com/yukie-nobuharu/synthizer/config"
	"github.com/yukie-nobuharu/synthizer/filter/biquad"
	"github.com/yukie-nobuharu/synthizer/filter/design"
)

// recordingAlgorithm captures every RunEffect invocation for inspection.
type recordingAlgorithm struct {
	blocks   []int
	channels []int
	gains    []float64
	inputs   [][]float64
}

func (a *recordingAlgorithm) RunEffect(block, channels int, input []float64, outChannels int, dst []float64, gain float64) {
	a.blocks = append(a.blocks, block)
	a.channels = append(a.channels, channels)
	a.gains = append(a.gains, gain)
	a.inputs = append(a.inputs, append([]float64(nil), input[:channels*config.BlockSize]...))
}

func newTestGlobal(t *testing.T, channels int) (*Global, *recordingAlgorithm, *Properties) {
	t.Helper()

	alg := &recordingAlgorithm{}
	props := NewProperties()

	g, err := NewGlobal(alg, props, channels)
	if err != nil {
		t.Fatal(err)
	}

	return g, alg, props
}

func runOneBlock(g *Global, outChannels int) []float64 {
	dst := make([]float64, outChannels*config.BlockSize)
	g.Run(outChannels, dst)

	return dst
}

func TestNewGlobalValidation(t *testing.T) {
	alg := &recordingAlgorithm{}
	props := NewProperties()

	if _, err := NewGlobal(nil, props, 2); err == nil {
		t.Error("nil algorithm: expected error")
	}
	if _, err := NewGlobal(alg, nil, 2); err == nil {
		t.Error("nil property source: expected error")
	}
	if _, err := NewGlobal(alg, props, -1); err == nil {
		t.Error("negative channels: expected error")
	}
	if _, err := NewGlobal(alg, props, config.MaxChannels+1); err == nil {
		t.Error("channels over MaxChannels: expected error")
	}
	if _, err := NewGlobal(alg, props, 0); err != nil {
		t.Errorf("zero channels is allowed: %v", err)
	}
}

func TestRunResetsUsedInputRegion(t *testing.T) {
	const channels = 2

	g, _, _ := newTestGlobal(t, channels)

	buf := g.InputBuffer()
	for i := 0; i < channels*config.BlockSize; i++ {
		buf[i] = 1
	}
	// A sample beyond the used region must survive the reset.
	buf[channels*config.BlockSize] = 7

	runOneBlock(g, 2)

	for i := 0; i < channels*config.BlockSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("input buffer sample %d not cleared: %v", i, buf[i])
		}
	}
	if buf[channels*config.BlockSize] != 7 {
		t.Error("reset cleared beyond the used region")
	}
}

func TestRunAdvancesBlockIndex(t *testing.T) {
	g, alg, _ := newTestGlobal(t, 1)

	for i := 0; i < 3; i++ {
		if got := g.BlockIndex(); got != i {
			t.Fatalf("BlockIndex before run %d: got %d", i, got)
		}
		runOneBlock(g, 1)
	}

	for i, b := range alg.blocks {
		if b != i {
			t.Errorf("algorithm saw block %d on run %d", b, i)
		}
	}
}

func TestFilterRebuildOnChannelChange(t *testing.T) {
	g, _, _ := newTestGlobal(t, 1)

	runOneBlock(g, 1)
	first := g.Filter()
	if first == nil {
		t.Fatal("no filter built on first run")
	}
	if first.Channels() != 1 {
		t.Fatalf("filter channels: got %d, want 1", first.Channels())
	}

	// Same channel count: no rebuild.
	runOneBlock(g, 1)
	if g.Filter() != first {
		t.Fatal("filter rebuilt without a channel change")
	}

	// Channel change: rebuild before processing.
	g.SetChannels(2)
	runOneBlock(g, 1)
	second := g.Filter()
	if second == first {
		t.Fatal("filter not rebuilt after channel change")
	}
	if second.Channels() != 2 {
		t.Fatalf("rebuilt filter channels: got %d, want 2", second.Channels())
	}

	// Change to zero: the old filter is kept.
	g.SetChannels(0)
	runOneBlock(g, 1)
	if g.Filter() != second {
		t.Fatal("filter replaced on zero channel count")
	}
}

func TestNoFilterBuiltForZeroChannels(t *testing.T) {
	g, _, _ := newTestGlobal(t, 0)

	runOneBlock(g, 1)
	if g.Filter() != nil {
		t.Fatal("filter built despite zero channel count")
	}
}

func TestFilterConfigPulledOncePerChange(t *testing.T) {
	g, alg, props := newTestGlobal(t, 1)

	// An identity pipeline passes the routed signal through to the
	// algorithm unchanged.
	buf := g.InputBuffer()
	buf[0] = 1
	runOneBlock(g, 1)
	if alg.inputs[0][0] != 1 {
		t.Fatalf("identity pipeline altered input: %v", alg.inputs[0][0])
	}

	// A configured zero filter mutes the input seen by the algorithm.
	props.SetFilter(biquad.Config{})
	buf[0] = 1
	runOneBlock(g, 1)
	if alg.inputs[1][0] != 0 {
		t.Fatalf("configured filter not applied: %v", alg.inputs[1][0])
	}
}

func TestFilteringAppliedToInput(t *testing.T) {
	g, alg, props := newTestGlobal(t, 1)
	props.SetFilter(design.Lowpass(0.05, 0))

	// Alternating full-scale samples: a lowpass must shrink the
	// sample-to-sample swing the algorithm observes.
	buf := g.InputBuffer()
	for i := 0; i < config.BlockSize; i++ {
		buf[i] = float64(1 - 2*(i%2))
	}
	runOneBlock(g, 1)

	seen := alg.inputs[0]
	var maxSwing float64
	for i := config.BlockSize / 2; i < config.BlockSize; i++ {
		if swing := math.Abs(seen[i] - seen[i-1]); swing > maxSwing {
			maxSwing = swing
		}
	}
	if maxSwing > 0.5 {
		t.Fatalf("lowpass left swing %v, want well under 2", maxSwing)
	}
}

func TestGainPulledFromProperties(t *testing.T) {
	g, alg, props := newTestGlobal(t, 1)

	props.SetGain(0.25)
	runOneBlock(g, 1)
	props.SetGain(2)
	runOneBlock(g, 1)

	if alg.gains[0] != 0.25 || alg.gains[1] != 2 {
		t.Fatalf("gains seen by algorithm: %v", alg.gains)
	}
}

func TestGainLinearity(t *testing.T) {
	// Scaling the configured gain by k scales the echo output by k.
	const k = 3.0

	outA := echoOutput(t, 1)
	outB := echoOutput(t, k)

	for i := range outA {
		if math.Abs(outB[i]-k*outA[i]) > 1e-9 {
			t.Fatalf("sample %d: gain %v gave %v, want %v", i, k, outB[i], k*outA[i])
		}
	}
}

// echoOutput runs two blocks of an impulse-fed echo at the given gain and
// returns the second block's output (past the first-block fade-in).
func echoOutput(t *testing.T, gain float64) []float64 {
	t.Helper()

	echo, err := NewEcho(config.BlockSize/2, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}

	props := NewProperties()
	props.SetGain(gain)

	g, err := NewGlobal(echo, props, 1)
	if err != nil {
		t.Fatal(err)
	}

	g.InputBuffer()[0] = 1
	runOneBlock(g, 1)

	return runOneBlock(g, 1)
}

func TestRunContractViolationsPanic(t *testing.T) {
	tests := []struct {
		name string
		call func(g *Global)
	}{
		{"zero output channels", func(g *Global) { g.Run(0, make([]float64, config.BlockSize)) }},
		{"too many output channels", func(g *Global) {
			g.Run(config.MaxChannels+1, make([]float64, (config.MaxChannels+1)*config.BlockSize))
		}},
		{"short destination", func(g *Global) { g.Run(2, make([]float64, config.BlockSize)) }},
		{"negative channel count", func(g *Global) { g.SetChannels(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := newTestGlobal(t, 1)
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.call(g)
		})
	}
}

// nopAlgorithm does nothing; used where the recording helper's bookkeeping
// would get in the way.
type nopAlgorithm struct{}

func (nopAlgorithm) RunEffect(block, channels int, input []float64, outChannels int, dst []float64, gain float64) {
}

func TestSteadyStateRunDoesNotAllocate(t *testing.T) {
	g, err := NewGlobal(nopAlgorithm{}, NewProperties(), 2)
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]float64, 2*config.BlockSize)

	// Warm up: first run builds the filter.
	g.Run(2, dst)

	allocs := testing.AllocsPerRun(100, func() {
		g.Run(2, dst)
	})
	if allocs != 0 {
		t.Fatalf("steady-state Run allocates %v times per call", allocs)
	}
}
