// SPDX-License-Identifier: EPL-2.0

package granular

import (
	"fmt"

	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/envelope"
	"github.com/ik5/granular/grain"
	"github.com/ik5/granular/mixdown"
	"github.com/ik5/granular/window"
)

// Slice cuts src into count contiguous grains, laid out like a Sequence
// population, and tapers each one with kind.
func Slice(src *audio.Buffer, count int, kind window.Kind) ([][]int16, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSliceLen, count)
	}

	env := envelope.DefaultConfig()
	env.SampleRate = float64(src.SampleRate())

	m, err := grain.NewManager(env)
	if err != nil {
		return nil, err
	}
	if err := m.Populate(count, src, grain.Sequence()); err != nil {
		return nil, err
	}

	q, err := mixdown.NewQuantizer(0, 0)
	if err != nil {
		return nil, err
	}

	out := make([][]int16, count)
	for i := range out {
		g, err := m.Grain(i)
		if err != nil {
			return nil, err
		}

		raw, err := src.Slice(g.Lower(), g.Upper())
		if err != nil {
			return nil, err
		}

		block := make([]float64, len(raw))
		mixdown.ToFloat(block, raw)
		if err := window.New(kind, len(block)).Apply(block); err != nil {
			return nil, err
		}

		out[i] = make([]int16, len(raw))
		if err := q.Quantize(out[i], block); err != nil {
			return nil, err
		}
	}

	return out, nil
}
