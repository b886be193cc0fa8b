// SPDX-License-Identifier: EPL-2.0

package lfo

import "errors"

var (
	ErrInvalidFrequency  = errors.New("lfo frequency must be positive and finite")
	ErrInvalidSampleRate = errors.New("lfo sample rate must be positive and finite")
	ErrInvalidTempo      = errors.New("tempo must be positive")
	ErrInvalidSlew       = errors.New("slew time must be non-negative and finite")
	ErrUnknownShape      = errors.New("unknown lfo shape")
	ErrUnknownDivision   = errors.New("unknown note division")
)
