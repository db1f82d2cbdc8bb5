// Package config holds the process-wide audio block configuration.
//
// These values are fixed at build time and shared by every component in the
// signal path: buffers are sized for the worst case (BlockSize frames of
// MaxChannels interleaved samples) regardless of the channel count actually
// in use.
package config

const (
	// SampleRate is the engine's internal sample rate in Hz. All filter
	// design frequencies are normalized against this rate.
	SampleRate = 44100

	// BlockSize is the number of frames processed per render call.
	BlockSize = 256

	// MaxChannels is the upper bound on the channel count of any buffer in
	// the signal path.
	MaxChannels = 16

	// BufferChunkFrames is the allocation granularity, in frames, for
	// in-memory sample stores built from decoders or generators.
	BufferChunkFrames = 1024 * 16
)
