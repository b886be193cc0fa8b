// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// SaturateInt16 truncates x toward zero and clamps it into the int16 range.
// NaN maps to 0.
func SaturateInt16(x float64) int16 {
	switch {
	case x != x:
		return 0
	case x >= math.MaxInt16:
		return math.MaxInt16
	case x <= math.MinInt16:
		return math.MinInt16
	}
	return int16(x)
}

// ClampInt32 clamps a wide accumulator into the int16 range.
func ClampInt32(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
