// SPDX-License-Identifier: EPL-2.0

package mixdown

import "math"

// DistributeUniform returns n values stepping evenly from lo toward hi.
// hi itself is never reached: the last value is lo + (n-1)/n·(hi-lo).
func DistributeUniform(n int, lo, hi float64) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = lo + float64(i)/float64(n)*(hi-lo)
	}
	return out
}

// DistributeExponential returns n values base·2^(i/n), spanning just
// under one octave above base.
func DistributeExponential(n int, base float64) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = base * math.Exp2(float64(i)/float64(n))
	}
	return out
}
