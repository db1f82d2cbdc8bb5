// Package buffer builds in-memory sample stores from producers such as
// decoders or generators. Samples are quantized to 16-bit and held in
// fixed-size chunks, halving memory against float storage while staying
// cheap to convert back on playback. The producer side of a streaming ring
// typically reads from a Data.
package buffer

import (
	"fmt"

	"github.com/yukie-nobuharu/synthizer/config"
)

// Producer fills dst with up to frames interleaved frames and returns how
// many it produced. Returning fewer than requested signals the end of the
// stream; a full return means more data may follow.
type Producer func(frames int, dst []float64) int

// Data is an immutable interleaved sample store.
type Data struct {
	channels int
	frames   int
	chunks   [][]int16
}

// FromProducer drains producer into a Data with the given channel count.
func FromProducer(channels int, producer Producer) (*Data, error) {
	if channels <= 0 || channels > config.MaxChannels {
		return nil, fmt.Errorf("buffer channel count must be in (0, %d]: %d", config.MaxChannels, channels)
	}
	if producer == nil {
		return nil, fmt.Errorf("buffer producer is nil")
	}

	d := &Data{channels: channels}

	chunkSamples := channels * config.BufferChunkFrames
	working := make([]float64, chunkSamples)

	for {
		for i := range working {
			working[i] = 0
		}
		got := producer(config.BufferChunkFrames, working)
		if got < 0 || got > config.BufferChunkFrames {
			return nil, fmt.Errorf("buffer producer returned %d frames of %d requested", got, config.BufferChunkFrames)
		}

		if got > 0 {
			chunk := make([]int16, chunkSamples)
			for i := 0; i < got*channels; i++ {
				chunk[i] = quantize(working[i])
			}
			d.chunks = append(d.chunks, chunk)
			d.frames += got
		}

		if got < config.BufferChunkFrames {
			return d, nil
		}
	}
}

// Channels returns the interleaved channel count.
func (d *Data) Channels() int {
	return d.channels
}

// Frames returns the total frame count.
func (d *Data) Frames() int {
	return d.frames
}

// ReadInterleaved copies frames starting at frame into dst as float64
// samples, returning the number of frames copied. dst length determines the
// request: len(dst)/Channels() frames. Reads past the end are truncated.
func (d *Data) ReadInterleaved(frame int, dst []float64) int {
	if frame < 0 || frame >= d.frames {
		return 0
	}

	want := len(dst) / d.channels
	if remaining := d.frames - frame; want > remaining {
		want = remaining
	}

	for i := 0; i < want; i++ {
		chunk := d.chunks[(frame+i)/config.BufferChunkFrames]
		base := ((frame + i) % config.BufferChunkFrames) * d.channels
		for ch := 0; ch < d.channels; ch++ {
			dst[i*d.channels+ch] = float64(chunk[base+ch]) / 32768.0
		}
	}

	return want
}

// Sample returns one sample as float64.
func (d *Data) Sample(frame, channel int) float64 {
	if frame < 0 || frame >= d.frames || channel < 0 || channel >= d.channels {
		panic(fmt.Sprintf("buffer: sample (%d, %d) out of range (%d frames, %d channels)",
			frame, channel, d.frames, d.channels))
	}

	chunk := d.chunks[frame/config.BufferChunkFrames]

	return float64(chunk[(frame%config.BufferChunkFrames)*d.channels+channel]) / 32768.0
}

// quantize converts a float sample to int16 with clamping.
func quantize(x float64) int16 {
	v := int32(x * 32768.0)
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}

	return int16(v)
}
