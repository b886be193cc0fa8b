// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"fmt"
	"math"
	"strings"

	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/utils"
)

// LanczosLobes is the kernel half-width used by the Lanczos kernel.
const LanczosLobes = 3

// Kernel selects how a fractional position is read from a buffer.
type Kernel uint8

const (
	Linear Kernel = iota
	Hermite
	Lanczos
)

func (k Kernel) String() string {
	switch k {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	case Lanczos:
		return "lanczos"
	}
	return fmt.Sprintf("Kernel(%d)", uint8(k))
}

// ParseKernel maps a kernel name (case insensitive) to its Kernel.
func ParseKernel(s string) (Kernel, error) {
	switch strings.ToLower(s) {
	case "linear", "":
		return Linear, nil
	case "hermite":
		return Hermite, nil
	case "lanczos":
		return Lanczos, nil
	}
	return Linear, fmt.Errorf("%w: %q", ErrUnknownKernel, s)
}

// Ratio converts a semitone offset to a playback-rate ratio in equal
// temperament: 12 semitones up doubles the rate.
func Ratio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// Sample reads buf at the fractional position pos using kernel k.
// Neighbouring taps are confined to [lower, upper), so a reader never
// sees samples outside its own range. rate scales the Hermite tangents.
func (k Kernel) Sample(buf *audio.Buffer, lower, upper int, pos, rate float64) float64 {
	if upper <= lower {
		return 0
	}

	// hold the edge samples rather than extrapolate past them
	pos = min(max(pos, float64(lower)), float64(upper-1))

	at := func(i int) float64 {
		return float64(buf.At(min(max(i, lower), upper-1)))
	}

	base := math.Floor(pos)
	i := int(base)
	frac := pos - base

	switch k {
	case Hermite:
		return utils.Hermite(at(i-1), at(i), at(i+1), at(i+2), rate, frac)
	case Lanczos:
		var sum, weight float64
		for j := max(i-LanczosLobes+1, lower); j <= min(i+LanczosLobes, upper-1); j++ {
			w := utils.Lanczos(pos-float64(j), LanczosLobes)
			sum += float64(buf.At(j)) * w
			weight += w
		}
		if weight == 0 {
			return 0
		}
		return sum / weight
	default:
		return utils.Lerp(at(i), at(i+1), frac)
	}
}
