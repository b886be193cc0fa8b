// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/granular/utils"
)

// Buffer is an immutable block of mono 16-bit PCM. Many readers may
// share one Buffer without synchronisation since nothing writes to it
// after construction.
type Buffer struct {
	samples    []int16
	sampleRate int
}

// NewBuffer copies samples into a new Buffer.
func NewBuffer(samples []int16, sampleRate int) *Buffer {
	s := make([]int16, len(samples))
	copy(s, samples)

	return &Buffer{samples: s, sampleRate: sampleRate}
}

func (b *Buffer) Len() int        { return len(b.samples) }
func (b *Buffer) SampleRate() int { return b.sampleRate }

// At returns the sample at i, clamping i into the buffer. An empty
// buffer reads as silence.
func (b *Buffer) At(i int) int16 {
	n := len(b.samples)
	switch {
	case n == 0:
		return 0
	case i < 0:
		return b.samples[0]
	case i >= n:
		return b.samples[n-1]
	}
	return b.samples[i]
}

// Slice copies the samples in [lower, upper).
func (b *Buffer) Slice(lower, upper int) ([]int16, error) {
	if lower < 0 || upper > len(b.samples) || lower >= upper {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrInvalidBufferRange, lower, upper, len(b.samples))
	}

	out := make([]int16, upper-lower)
	copy(out, b.samples[lower:upper])

	return out, nil
}

// LoadBuffer drains src into a mono Buffer at targetRate: the source is
// resampled when its rate differs, folded to mono and converted to int16.
func LoadBuffer(src Source, targetRate int) (*Buffer, error) {
	if targetRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	chans, err := drain(NewMonoMixer(rateConverted(src, targetRate)), 1)
	if err != nil {
		return nil, err
	}
	if len(chans[0]) == 0 {
		return nil, ErrEmptyBuffer
	}

	return &Buffer{samples: chans[0], sampleRate: targetRate}, nil
}

// LoadChannels drains src at targetRate and returns one Buffer per
// channel, de-interleaving the stream.
func LoadChannels(src Source, targetRate int) ([]*Buffer, error) {
	if targetRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	conv := rateConverted(src, targetRate)
	chans, err := drain(conv, conv.Channels())
	if err != nil {
		return nil, err
	}
	if len(chans[0]) == 0 {
		return nil, ErrEmptyBuffer
	}

	bufs := make([]*Buffer, len(chans))
	for i, c := range chans {
		bufs[i] = &Buffer{samples: c, sampleRate: targetRate}
	}

	return bufs, nil
}

// Deinterleave splits interleaved frames into per-channel slices.
func Deinterleave(interleaved []int16, channels int) ([][]int16, error) {
	if channels <= 0 {
		return nil, ErrChannelOutOfRange
	}
	if len(interleaved)%channels != 0 {
		return nil, ErrInvalidDstSize
	}

	frames := len(interleaved) / channels
	out := make([][]int16, channels)
	for c := range out {
		out[c] = make([]int16, frames)
		for f := range frames {
			out[c][f] = interleaved[f*channels+c]
		}
	}

	return out, nil
}

func rateConverted(src Source, targetRate int) Source {
	if src.SampleRate() == targetRate {
		return src
	}
	return NewResampler(src, targetRate)
}

func drain(src Source, channels int) ([][]int16, error) {
	channels = max(channels, 1)
	size := max(src.BufSize(), 1024)
	size -= size % channels
	buf := make([]float32, size)

	out := make([][]int16, channels)
	empty := 0
	for {
		n, err := src.ReadSamples(buf)
		if n == 0 && err == nil {
			if empty++; empty >= maxEmptyReads {
				return out, nil
			}
			continue
		}
		empty = 0

		for i := range n - n%channels {
			c := i % channels
			out[c] = append(out[c], utils.Float32ToInt16(buf[i]))
		}

		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}
}
