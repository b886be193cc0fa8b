// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Lerp blends a toward b by t (t=0 gives a, t=1 gives b).
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Sinc is the normalised sinc function sin(πx)/(πx), 1 at x=0.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// Lanczos is the Lanczos kernel with a lobes; zero outside [-a, a].
func Lanczos(x, a float64) float64 {
	if math.Abs(x) > a {
		return 0
	}
	return Sinc(x) * Sinc(x/a)
}

// Hermite interpolates between p1 and p2 with a cubic Hermite spline.
// factor scales the tangents, so a resampler can stretch them by its
// playback rate. With factor=1 it matches Catmull-Rom.
func Hermite(p0, p1, p2, p3, factor, t float64) float64 {
	m1 := (p2 - p0) * 0.5 * factor
	m2 := (p3 - p1) * 0.5 * factor

	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return p1*h00 + m1*h10 + p2*h01 + m2*h11
}

// CubicInterpolate is the float32 Catmull-Rom form used by the streaming
// resampler: x in [0,1] between y1 and y2.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	return float32(Hermite(float64(y0), float64(y1), float64(y2), float64(y3), 1, float64(x)))
}
