// SPDX-License-Identifier: EPL-2.0

package mixdown

import (
	"context"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
)

// chunk is how many samples a layer renders between cancellation checks.
const chunk = 4096

// Renderer fills dst with its next len(dst) samples. grain.Manager
// satisfies it.
type Renderer interface {
	Render(dst []int16)
}

// Layer is one voice in a bounce.
type Layer struct {
	Source Renderer
	Gain   float64
}

// Bounce renders frames samples from every layer and returns their
// gain-weighted average. Each layer runs on its own goroutine, so
// layers must not share mutable state. Cancelling ctx stops all layers
// at the next chunk boundary.
func Bounce(ctx context.Context, layers []Layer, frames int) ([]float64, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	for i, l := range layers {
		if l.Source == nil {
			return nil, fmt.Errorf("%w: layer %d", ErrNilSource, i)
		}
		if math.IsNaN(l.Gain) || math.IsInf(l.Gain, 0) || l.Gain < 0 {
			return nil, fmt.Errorf("%w: layer %d gain %v", ErrInvalidGain, i, l.Gain)
		}
	}

	rendered := make([][]float64, len(layers))

	g, ctx := errgroup.WithContext(ctx)
	for i, l := range layers {
		g.Go(func() error {
			out, err := renderLayer(ctx, l.Source, frames)
			if err != nil {
				return fmt.Errorf("layer %d: %w", i, err)
			}
			vecmath.ScaleBlockInPlace(out, l.Gain)
			rendered[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mix := rendered[0]
	for _, r := range rendered[1:] {
		vecmath.AddBlockInPlace(mix, r)
	}
	vecmath.ScaleBlockInPlace(mix, 1/float64(len(layers)))

	return mix, nil
}

func renderLayer(ctx context.Context, src Renderer, frames int) ([]float64, error) {
	out := make([]float64, frames)
	scratch := make([]int16, min(chunk, frames))

	for off := 0; off < frames; off += len(scratch) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(len(scratch), frames-off)
		src.Render(scratch[:n])
		ToFloat(out[off:off+n], scratch[:n])
	}

	return out, nil
}

// ToFloat widens src into dst; dst must be at least as long as src.
func ToFloat(dst []float64, src []int16) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}

// Peak returns the largest absolute sample in buf.
func Peak(buf []float64) float64 {
	return vecmath.MaxAbs(buf)
}

// Normalize scales buf so its peak sits at ceiling and returns the
// gain it applied. A silent buffer is left alone and reports gain 1.
func Normalize(buf []float64, ceiling float64) (float64, error) {
	if math.IsNaN(ceiling) || math.IsInf(ceiling, 0) || ceiling < 0 {
		return 0, fmt.Errorf("%w: ceiling %v", ErrInvalidGain, ceiling)
	}

	peak := Peak(buf)
	if peak == 0 {
		return 1, nil
	}

	gain := ceiling / peak
	vecmath.ScaleBlockInPlace(buf, gain)
	return gain, nil
}
