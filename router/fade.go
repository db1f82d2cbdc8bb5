package router

import "github.com/yukie-nobuharu/synthizer/config"

// fadeDriver ramps a route's gain linearly across a span of blocks. Times
// are router block counts; within a block the ramp advances per frame so a
// fade never steps audibly.
type fadeDriver struct {
	startGain  float64
	targetGain float64
	startTime  int
	endTime    int
}

// set begins a fade from the current gain at time toward gain, spread over
// fadeBlocks blocks. fadeBlocks zero applies the new gain immediately.
func (f *fadeDriver) set(time int, gain float64, fadeBlocks int) {
	f.startGain = f.gainAt(time, 0)
	f.targetGain = gain
	f.startTime = time
	f.endTime = time + fadeBlocks
}

// gainAt returns the gain at the given block time and frame offset.
func (f *fadeDriver) gainAt(time, frame int) float64 {
	if time >= f.endTime {
		return f.targetGain
	}

	elapsed := float64(time-f.startTime) + float64(frame)/config.BlockSize
	progress := elapsed / float64(f.endTime-f.startTime)

	return f.startGain + (f.targetGain-f.startGain)*progress
}

// fading reports whether the ramp is still in progress at time.
func (f *fadeDriver) fading(time int) bool {
	return time < f.endTime
}

// activeAt reports whether the route still carries signal at time: either
// its settled gain is nonzero or it is mid-fade.
func (f *fadeDriver) activeAt(time int) bool {
	return f.targetGain != 0 || f.fading(time)
}
