// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files into an audio.Source.
//
// Decoding is done by github.com/go-audio/aiff. Integer PCM at 8, 16,
// 24 and 32 bits is accepted, with any channel count and sample rate.
// Samples come out as float32 in [-1, 1).
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not AIFF at all
//	}
//
// AIFF-C compressed files are rejected with ErrUnsupportedAiffLayout or
// ErrNotAiffFile depending on how far the header parses.
package aiff
