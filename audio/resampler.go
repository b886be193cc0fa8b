// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/granular/utils"
)

// maxEmptyReads bounds how many (0, nil) reads a Resampler tolerates
// from its source before treating the stream as finished.
const maxEmptyReads = 64

// Resampler streams src at another sample rate using Catmull-Rom
// interpolation over a four frame window. Channel count is preserved.
// When downsampling, a one-pole low-pass scaled by the rate ratio
// runs ahead of the interpolator.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// win holds frames t-1, t0, t+1 and t+2; live marks frames that
	// came from the source rather than edge duplication.
	win    [4][]float32
	live   [4]bool
	primed bool
	pos    float64

	in     []float32
	inPos  int
	inLen  int
	eof    bool
	srcErr error

	lowpass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		in:       make([]float32, 1024*channels),
		state:    make([]float32, channels),
	}

	if step > 1 {
		r.lowpass = true
		r.alpha = max(float32(1/step), 0.05)
	}

	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull copies the next source frame into dst, filtering it when
// downsampling. It reports false once the source is exhausted.
func (r *Resampler) pull(dst []float32) bool {
	empty := 0
	for r.inPos >= r.inLen {
		if r.eof {
			return false
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels

		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			r.srcErr = err
			r.eof = true
		case n == 0:
			empty++
			if empty >= maxEmptyReads {
				r.eof = true
			}
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}

	return true
}

func (r *Resampler) prime() bool {
	if !r.pull(r.win[1]) {
		return false
	}
	if r.lowpass {
		// start the filter settled on the first frame
		copy(r.state, r.win[1])
	}

	copy(r.win[0], r.win[1])
	r.live[0], r.live[1] = false, true

	for i := 2; i < 4; i++ {
		r.live[i] = r.pull(r.win[i])
		if !r.live[i] {
			copy(r.win[i], r.win[i-1])
		}
	}

	r.primed = true
	return true
}

func (r *Resampler) shift() {
	oldest := r.win[0]
	copy(r.win[:3], r.win[1:])
	copy(r.live[:3], r.live[1:])
	r.win[3] = oldest

	r.live[3] = r.pull(r.win[3])
	if !r.live[3] {
		copy(r.win[3], r.win[2])
	}
}

func (r *Resampler) finish(written int) (int, error) {
	if r.srcErr != nil {
		return written * r.channels, fmt.Errorf("%w", r.srcErr)
	}
	return written * r.channels, io.EOF
}

// ReadSamples produces interleaved samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed && !r.prime() {
		return r.finish(0)
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1 {
			if !r.live[2] {
				return r.finish(written)
			}
			r.shift()
			r.pos--
		}

		if !r.live[2] {
			return r.finish(written)
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
