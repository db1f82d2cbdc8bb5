// Package effects implements the per-block global effect pipeline: an effect
// node that many sources route into collectively, as opposed to a per-source
// effect.
//
// A [Global] owns the accumulation buffer the routing subsystem writes into
// during a block's mix phase. Once per block the render graph calls
// [Global.Run], which conditionally filters the accumulated signal, hands it
// to the effect [Algorithm], clears the buffer for the next block, and
// advances the block counter. Everything runs on the single render goroutine;
// the pipeline itself needs no locking.
package effects
