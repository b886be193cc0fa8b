// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize     = errors.New("dst size must be multiple of channels")
	ErrInvalidSampleRate  = errors.New("sample rate must be positive")
	ErrEmptyBuffer        = errors.New("audio buffer is empty")
	ErrUnknownFormat      = errors.New("unknown audio format")
	ErrChannelOutOfRange  = errors.New("channel index out of range")
	ErrInvalidBufferRange = errors.New("invalid buffer range")
)

// FormatError reports a file extension with no registered decoder.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q", e.Format)
}

func (e *FormatError) Unwrap() error { return ErrUnknownFormat }
