// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ik5/granular/resample"
)

// MaxGrains caps a population; the mixer sums grains in int32.
const MaxGrains = 4096

// reverseChance is the probability a Cloud grain plays backwards.
const reverseChance = 0.25

// layout is the initial state population assigns to one grain.
type layout struct {
	span
	rate    float64
	reverse bool
	looping bool
}

// plan computes the grain layouts for count grains over a source of n
// samples. Every returned span satisfies 0 <= lower < upper <= n.
func plan(count, n int, mode Mode, rng *rand.Rand) ([]layout, error) {
	if count <= 0 || count > MaxGrains {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrGrainCount, count, MaxGrains)
	}
	if n <= 0 {
		return nil, ErrNoSource
	}

	switch mode.Kind {
	case SequenceMode:
		return planSequence(count, n)
	case CascadeMode:
		return planCascade(count, n, mode.Lower, mode.Upper)
	case CloudMode:
		return planCloud(count, n, mode, rng)
	}

	return nil, fmt.Errorf("%w: mode %v", ErrInvalidParam, mode.Kind)
}

func planSequence(count, n int) ([]layout, error) {
	size := n / count
	if size == 0 {
		return nil, fmt.Errorf("%w: %d grains over %d samples", ErrZeroLength, count, n)
	}

	out := make([]layout, count)
	for i := range out {
		out[i] = layout{span: span{i * size, (i + 1) * size}, rate: 1}
	}
	return out, nil
}

func planCascade(count, n, lower, upper int) ([]layout, error) {
	if err := checkSpan(span{lower, upper}, n); err != nil {
		return nil, err
	}

	width := (upper - lower) / count
	if width == 0 {
		return nil, fmt.Errorf("%w: %d grains over [%d, %d)", ErrZeroLength, count, lower, upper)
	}

	out := make([]layout, count)
	for i := range out {
		out[i] = layout{span: span{lower + i*width, upper}, rate: 1, looping: true}
	}
	return out, nil
}

func planCloud(count, n int, mode Mode, rng *rand.Rand) ([]layout, error) {
	switch {
	case mode.Length <= 0:
		return nil, fmt.Errorf("%w: cloud length %d", ErrZeroLength, mode.Length)
	case math.IsNaN(mode.Variation) || math.IsInf(mode.Variation, 0) || mode.Variation < 0:
		return nil, fmt.Errorf("%w: cloud variation %v", ErrInvalidParam, mode.Variation)
	case mode.Start < 0 || mode.Start >= n:
		return nil, fmt.Errorf("%w: cloud start %d of %d", ErrInvalidRange, mode.Start, n)
	}

	out := make([]layout, count)
	for i := range out {
		depth := rng.Float64()
		shift := int(min(mode.Variation/2*depth*float64(mode.Length), float64(n)))

		octave := rng.Intn(3) - 1
		out[i] = layout{
			span: span{
				lower: max(mode.Start-shift, 0),
				upper: min(mode.Start+mode.Length+shift, n),
			},
			rate:    resample.Ratio(float64(12 * octave)),
			reverse: rng.Float64() < reverseChance,
			looping: true,
		}
	}
	return out, nil
}
