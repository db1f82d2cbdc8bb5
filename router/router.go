// Package router sums audio from many source outputs into the accumulation
// buffers of effect inputs. Routes are configured with a gain and an
// optional crossfade; removal fades to silence before the route is culled.
//
// All methods run on the render goroutine. The routing phase for a block
// (RouteAudio calls) must complete before the effects consume their input
// buffers, and FinishBlock runs once per block after everything else.
package router

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-vecmath"

	"github.com/yukie-nobuharu/synthizer/config"
	"github.com/yukie-nobuharu/synthizer/mix"
)

// Output identifies a routable source. A source routes one block of audio to
// all of its routes with a single RouteAudio call.
type Output struct {
	id int
}

// Input is an accumulation target: typically an effect's input buffer at the
// effect's channel count.
type Input struct {
	id       int
	buffer   []float64
	channels int
}

// Buffer returns the accumulation buffer this input wraps.
func (in *Input) Buffer() []float64 {
	return in.buffer
}

type route struct {
	output *Output
	input  *Input
	fade   fadeDriver
}

// Router owns the route table, kept sorted by (output, input) registration
// order so each output's routes form one contiguous run.
type Router struct {
	routes []route
	nextID int
	time   int

	workBuf []float64
	gainBuf []float64
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		workBuf: make([]float64, config.BlockSize*config.MaxChannels),
		gainBuf: make([]float64, config.BlockSize*config.MaxChannels),
	}
}

// NewOutput registers a source handle.
func (r *Router) NewOutput() *Output {
	r.nextID++
	return &Output{id: r.nextID}
}

// NewInput registers an accumulation target over buffer with the given
// channel count. The buffer must hold at least channels*config.BlockSize
// samples.
func (r *Router) NewInput(buffer []float64, channels int) (*Input, error) {
	if channels <= 0 || channels > config.MaxChannels {
		return nil, fmt.Errorf("router input channel count must be in (0, %d]: %d", config.MaxChannels, channels)
	}
	if len(buffer) < channels*config.BlockSize {
		return nil, fmt.Errorf("router input buffer needs %d samples, have %d", channels*config.BlockSize, len(buffer))
	}

	r.nextID++

	return &Input{id: r.nextID, buffer: buffer, channels: channels}, nil
}

// ConfigureRoute creates or updates the route from output to input, fading
// from the current gain to the new one over fadeBlocks blocks.
func (r *Router) ConfigureRoute(output *Output, input *Input, gain float64, fadeBlocks int) {
	i, found := r.findRoute(output, input)
	if !found {
		r.routes = append(r.routes, route{})
		copy(r.routes[i+1:], r.routes[i:])
		r.routes[i] = route{output: output, input: input}
	}
	r.routes[i].fade.set(r.time, gain, fadeBlocks)
}

// RemoveRoute fades the route to silence over fadeBlocks blocks; FinishBlock
// culls it once the fade completes. Removing a route that does not exist is
// a no-op.
func (r *Router) RemoveRoute(output *Output, input *Input, fadeBlocks int) {
	if _, found := r.findRoute(output, input); found {
		r.ConfigureRoute(output, input, 0, fadeBlocks)
	}
}

// RemoveAllRoutes fades out every route of output.
func (r *Router) RemoveAllRoutes(output *Output, fadeBlocks int) {
	for i := r.findRun(output); i < len(r.routes) && r.routes[i].output == output; i++ {
		r.routes[i].fade.set(r.time, 0, fadeBlocks)
	}
}

// UnregisterInput drops every route targeting input immediately, without a
// fade. Used when the input's owner is torn down.
func (r *Router) UnregisterInput(input *Input) {
	r.filterRoutes(func(rt *route) bool { return rt.input != input })
}

// UnregisterOutput drops every route of output immediately, without a fade.
func (r *Router) UnregisterOutput(output *Output) {
	r.filterRoutes(func(rt *route) bool { return rt.output != output })
}

// RouteAudio accumulates one block from src (channels wide) into every input
// routed from output, applying each route's per-frame fade gain and
// converting channel layouts. src must hold channels*config.BlockSize
// samples.
func (r *Router) RouteAudio(output *Output, src []float64, channels int) {
	if channels <= 0 || channels > config.MaxChannels {
		panic(fmt.Sprintf("router: RouteAudio channel count must be in (0, %d]: %d", config.MaxChannels, channels))
	}
	n := channels * config.BlockSize
	if len(src) < n {
		panic(fmt.Sprintf("router: RouteAudio needs %d samples, have %d", n, len(src)))
	}

	for i := r.findRun(output); i < len(r.routes) && r.routes[i].output == output; i++ {
		rt := &r.routes[i]
		if rt.input == nil {
			continue
		}

		// Expand the per-frame fade gain across the interleaved
		// samples, then apply it in one vector multiply.
		gains := r.gainBuf[:n]
		for frame := 0; frame < config.BlockSize; frame++ {
			g := rt.fade.gainAt(r.time, frame)
			base := frame * channels
			for ch := 0; ch < channels; ch++ {
				gains[base+ch] = g
			}
		}

		work := r.workBuf[:n]
		vecmath.MulBlock(work, src[:n], gains)
		mix.Channels(config.BlockSize, work, channels, rt.input.buffer, rt.input.channels)
	}
}

// FinishBlock advances router time and culls routes whose fade-out has
// completed. Call once per block, after all RouteAudio calls.
func (r *Router) FinishBlock() {
	r.time++
	r.filterRoutes(func(rt *route) bool {
		return rt.output != nil && rt.input != nil && rt.fade.activeAt(r.time)
	})
}

// Time returns the router's block clock.
func (r *Router) Time() int {
	return r.time
}

// findRoute returns the index of the (output, input) route, or the insertion
// point keeping the table sorted if it does not exist.
func (r *Router) findRoute(output *Output, input *Input) (int, bool) {
	i := sort.Search(len(r.routes), func(i int) bool {
		rt := &r.routes[i]
		if rt.output.id != output.id {
			return rt.output.id >= output.id
		}
		return rt.input.id >= input.id
	})

	if i < len(r.routes) && r.routes[i].output == output && r.routes[i].input == input {
		return i, true
	}

	return i, false
}

// findRun returns the index of output's first route, or len(routes).
func (r *Router) findRun(output *Output) int {
	i := sort.Search(len(r.routes), func(i int) bool {
		return r.routes[i].output.id >= output.id
	})

	if i < len(r.routes) && r.routes[i].output == output {
		return i
	}

	return len(r.routes)
}

// filterRoutes keeps routes for which keep returns true, preserving order.
func (r *Router) filterRoutes(keep func(*route) bool) {
	kept := r.routes[:0]
	for i := range r.routes {
		if keep(&r.routes[i]) {
			kept = append(kept, r.routes[i])
		}
	}
	r.routes = kept
}
