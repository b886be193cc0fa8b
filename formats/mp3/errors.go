// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrNotMP3 wraps the go-mp3 error when no frame header is found.
var ErrNotMP3 = errors.New("not an MP3 stream")
