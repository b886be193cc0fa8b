// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// encodeChunk bounds the int conversion buffer Encode allocates.
const encodeChunk = 8192

func checkLayout(sampleRate, channels, samples int) error {
	switch {
	case sampleRate <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	case channels <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	case samples%channels != 0:
		return fmt.Errorf("%w: %d samples over %d channels", ErrPartialFrame, samples, channels)
	}
	return nil
}

// Encode writes interleaved samples as a 16-bit PCM WAV. The writer is
// not closed.
func Encode(ws io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if err := checkLayout(sampleRate, channels, len(samples)); err != nil {
		return err
	}

	enc := gowav.NewEncoder(ws, sampleRate, 16, channels, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}

	// whole frames per chunk
	step := max(encodeChunk/channels, 1) * channels
	buf.Data = make([]int, 0, min(step, len(samples)))

	for off := 0; off < len(samples); off += step {
		part := samples[off:min(off+step, len(samples))]
		buf.Data = buf.Data[:len(part)]
		for i, v := range part {
			buf.Data[i] = int(v)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}

	return nil
}
