// Package biquad provides the runtime side of the engine's biquad
// (second-order IIR) filtering.
//
// A [Section] implements Direct Form II Transposed processing for one
// channel. A [Filter] holds one Section per channel and processes interleaved
// audio blocks, which is the form the effect pipeline feeds it.
//
// This package provides the processing runtime only. Coefficient design
// (lowpass, highpass, bandpass) lives in filter/design; the [Config]
// structure is the sole data exchanged between the two.
package biquad
