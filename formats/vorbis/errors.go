// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrNotVorbis wraps the oggvorbis error for streams without valid
// identification headers.
var ErrNotVorbis = errors.New("not an Ogg Vorbis stream")
