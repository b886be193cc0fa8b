// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE PCM files.
//
// Decoding goes through github.com/go-audio/wav and accepts 8, 16, 24
// and 32-bit integer PCM with any channel count:
//
//	src, err := wav.Decoder{}.Decode(file)
//
// Writing has two paths. Encode uses the go-audio encoder and needs an
// io.WriteSeeker (an *os.File) because it patches chunk sizes on
// close. WritePCM16 emits a canonical 44-byte header up front and works
// on any io.Writer, such as a pipe or an in-memory buffer:
//
//	err := wav.Encode(file, 44100, 2, interleaved)
//	err = wav.WritePCM16(os.Stdout, 44100, 1, mono)
package wav
