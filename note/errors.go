// SPDX-License-Identifier: EPL-2.0

package note

import "errors"

var (
	ErrInvalidName     = errors.New("note: invalid note name")
	ErrInvalidSequence = errors.New("note: invalid sequence")
)
