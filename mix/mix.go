// Package mix converts interleaved audio between channel counts while
// accumulating into the destination. Every producer in the signal path adds
// into its target rather than overwriting it, so a destination that many
// sources feed starts from silence once per block and sums contributions.
//
// Conversion rules: matching counts add channel by channel; a mono source
// fans out to every destination channel; otherwise channels are matched by
// index, surplus source channels are dropped, and surplus destination
// channels are left untouched.
package mix

import "fmt"

// Channels accumulates frames interleaved frames from src (srcChannels wide)
// into dst (dstChannels wide). Both slices must hold at least
// frames*channels samples for their respective widths or the call panics.
func Channels(frames int, src []float64, srcChannels int, dst []float64, dstChannels int) {
	if srcChannels <= 0 || dstChannels <= 0 {
		panic(fmt.Sprintf("mix: channel counts must be > 0: src %d dst %d", srcChannels, dstChannels))
	}
	if len(src) < frames*srcChannels || len(dst) < frames*dstChannels {
		panic(fmt.Sprintf("mix: need %d src and %d dst samples, have %d and %d",
			frames*srcChannels, frames*dstChannels, len(src), len(dst)))
	}

	switch {
	case srcChannels == dstChannels:
		n := frames * srcChannels
		for i := 0; i < n; i++ {
			dst[i] += src[i]
		}
	case srcChannels == 1:
		for frame := 0; frame < frames; frame++ {
			x := src[frame]
			base := frame * dstChannels
			for ch := 0; ch < dstChannels; ch++ {
				dst[base+ch] += x
			}
		}
	default:
		keep := min(srcChannels, dstChannels)
		for frame := 0; frame < frames; frame++ {
			srcBase := frame * srcChannels
			dstBase := frame * dstChannels
			for ch := 0; ch < keep; ch++ {
				dst[dstBase+ch] += src[srcBase+ch]
			}
		}
	}
}
