// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input has no FORM/AIFF header or no
	// usable COMM chunk.
	ErrNotAiffFile = errors.New("not an AIFF file")

	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
