// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with
// github.com/jfreymuth/oggvorbis.
//
// Samples come out interleaved as float32 in [-1, 1] with the stream's
// own channel count. Reads always return whole frames.
package vorbis
