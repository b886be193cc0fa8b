// SPDX-License-Identifier: EPL-2.0

package grain

import "errors"

var (
	ErrInvalidRange = errors.New("grain range must satisfy 0 <= lower < upper <= source length")
	ErrGrainIndex   = errors.New("grain index out of range")
	ErrGrainCount   = errors.New("invalid grain count")
	ErrZeroLength   = errors.New("population leaves grains with zero length")
	ErrInvalidParam = errors.New("invalid parameter")
	ErrNoSource     = errors.New("no source buffer")
)
