// SPDX-License-Identifier: EPL-2.0

// Package waveplot draws an overview image of rendered audio.
package waveplot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	ErrNoChannels  = errors.New("waveplot: no channels")
	ErrInvalidSize = errors.New("waveplot: image too small")
)

var (
	Background = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	Axis       = color.RGBA{R: 60, G: 60, B: 80, A: 255}
	Wave       = color.RGBA{R: 90, G: 200, B: 140, A: 255}
	Text       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Draw renders one lane per channel into a width×height image. Each
// column shows the minimum and maximum of the samples it covers, never
// thinner than one pixel, over a centre line. label goes in the top left
// corner.
func Draw(channels [][]int16, width, height int, label string) (*image.RGBA, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if width < 1 || height < 2*len(channels) {
		return nil, fmt.Errorf("%w: %dx%d for %d channels", ErrInvalidSize, width, height, len(channels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(width, height)
	for c, samples := range channels {
		top := c * height / len(channels)
		bottom := (c + 1) * height / len(channels)
		mid := (top + bottom) / 2

		draw.Draw(img, image.Rect(0, mid, width, mid+1), image.NewUniform(Axis), image.Point{}, draw.Src)
		if len(samples) == 0 {
			continue
		}

		lane(z, samples, width, float32(top+bottom)/2, float32(bottom-top)/2)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(Wave), image.Point{})

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Text),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 13),
	}
	d.DrawString(label)

	return img, nil
}

// lane adds the min/max outline of samples to z as one closed path.
func lane(z *vector.Rasterizer, samples []int16, width int, mid, half float32) {
	y := func(v int16) float32 { return mid - float32(v)/32768*half }

	hi := make([]float32, width)
	lo := make([]float32, width)
	for x := range width {
		from := x * len(samples) / width
		to := max((x+1)*len(samples)/width, from+1)

		mn, mx := samples[from], samples[from]
		for _, v := range samples[from:min(to, len(samples))] {
			mn = min(mn, v)
			mx = max(mx, v)
		}
		hi[x] = y(mx)
		lo[x] = max(y(mn), hi[x]+1)
	}

	z.MoveTo(0, hi[0])
	for x := range width {
		z.LineTo(float32(x), hi[x])
		z.LineTo(float32(x+1), hi[x])
	}
	for x := width - 1; x >= 0; x-- {
		z.LineTo(float32(x+1), lo[x])
		z.LineTo(float32(x), lo[x])
	}
	z.ClosePath()
}
