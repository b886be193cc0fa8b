// SPDX-License-Identifier: EPL-2.0

package envelope

import "math"

// linearCurve is the |k| below which a curve is treated as a straight line.
const linearCurve = 1e-6

// shape evaluates (e^(k·x) − 1)/(e^k − 1) for x in [0, 1].
func shape(k, x float64) float64 {
	if math.Abs(k) < linearCurve {
		return x
	}
	return math.Expm1(k*x) / math.Expm1(k)
}

// fill writes n points of fn(x), x = i/n, into dst, reusing its storage.
func fill(dst []float64, n int, fn func(x float64) float64) []float64 {
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	for i := range dst {
		dst[i] = fn(float64(i) / float64(n))
	}
	return dst
}
