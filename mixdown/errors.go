// SPDX-License-Identifier: EPL-2.0

package mixdown

import "errors"

var (
	ErrNoLayers       = errors.New("no layers to mix")
	ErrNilSource      = errors.New("layer has no source")
	ErrInvalidGain    = errors.New("gain must be non-negative and finite")
	ErrLengthMismatch = errors.New("buffer lengths differ")
	ErrNoChannels     = errors.New("at least one channel is required")
)
