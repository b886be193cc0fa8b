// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo; mono files are
// duplicated to both channels by go-mp3. Samples are float32 in
// [-1, 1). Input that is not seekable is read as a stream, so the total
// length is unknown until EOF.
package mp3
