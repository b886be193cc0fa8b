// SPDX-License-Identifier: EPL-2.0

package mixdown

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/ik5/granular/utils"
)

// tpdfScale maps the dither generator's int32 sum onto ±1 LSB.
const tpdfScale = 1.0 / (1 << 31)

// Quantizer rounds float samples to int16, optionally adding triangular
// dither first. It keeps generator state between calls so consecutive
// blocks get an unbroken noise sequence.
type Quantizer struct {
	amount float64
	state  *vecmath.DitherState
}

// NewQuantizer returns a quantizer adding amount LSB of TPDF dither
// (0 disables it) seeded with seed.
func NewQuantizer(amount float64, seed int64) (*Quantizer, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, fmt.Errorf("%w: dither %v", ErrInvalidGain, amount)
	}

	return &Quantizer{
		amount: amount,
		state:  vecmath.NewDitherState(seed),
	}, nil
}

// Quantize writes src to dst, rounding to the nearest step and
// saturating at the int16 limits. Dither is added to src in place.
func (q *Quantizer) Quantize(dst []int16, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), len(src))
	}

	if q.amount > 0 {
		vecmath.AddDitherTPDF(src, q.amount*tpdfScale, q.state)
	}
	for i, v := range src {
		dst[i] = utils.SaturateInt16(math.Round(v))
	}

	return nil
}
