// SPDX-License-Identifier: EPL-2.0

package granular

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNoChannels      = errors.New("engine needs at least one source channel")
	ErrRateMismatch    = errors.New("source sample rate differs from the engine rate")
	ErrPartialFrame    = errors.New("buffer does not hold whole frames")
	ErrNegativeFrames  = errors.New("frame count must not be negative")
	ErrInvalidSliceLen = errors.New("grain count must be positive")
)
