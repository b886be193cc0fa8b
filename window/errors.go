// SPDX-License-Identifier: EPL-2.0

package window

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown window kind")
	ErrLengthMismatch = errors.New("block length does not match window length")
)
