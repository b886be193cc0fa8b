// SPDX-License-Identifier: EPL-2.0

// Package spectrum estimates the dominant frequency of a rendered
// block.
package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/ik5/granular/window"
)

// MaxSize bounds the analysis length.
const MaxSize = 1 << 20

var (
	ErrTooShort          = errors.New("spectrum: need at least 4 samples")
	ErrInvalidSampleRate = errors.New("spectrum: sample rate must be positive")
)

// Peak returns the frequency in Hz of the strongest non-DC bin of
// samples, refined by parabolic interpolation between neighbours.
// Input longer than MaxSize, or not a power of two, is truncated to the
// largest power of two that fits.
func Peak(samples []int16, sampleRate int) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if len(samples) < 4 {
		return 0, ErrTooShort
	}

	n := 1 << (bits.Len(uint(min(len(samples), MaxSize))) - 1)

	win := window.New(window.Hann, n-1)
	in := make([]complex128, n)
	for i := range n {
		in[i] = complex(float64(samples[i])*win.At(i), 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return 0, fmt.Errorf("spectrum: %w", err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("spectrum: %w", err)
	}

	mag := make([]float64, n/2+1)
	for i := range mag {
		mag[i] = math.Hypot(real(out[i]), imag(out[i]))
	}

	best := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}

	bin := float64(best)
	if best+1 < len(mag) {
		a, b, c := mag[best-1], mag[best], mag[best+1]
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}

	return bin * float64(sampleRate) / float64(n), nil
}
