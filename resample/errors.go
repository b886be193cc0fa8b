// SPDX-License-Identifier: EPL-2.0

package resample

import "errors"

var (
	ErrInvalidRate   = errors.New("playback rate must be positive and finite")
	ErrUnknownKernel = errors.New("unknown resampling kernel")
)
