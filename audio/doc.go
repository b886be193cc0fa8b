// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample plumbing that feeds the grain engine.
//
// Decoders in the formats subpackages produce a Source, a pull-based
// stream of interleaved float32 samples in [-1, 1]. Sources chain:
//
//	res := audio.NewResampler(src, 48000)
//	mono := audio.NewMonoMixer(res)
//
// LoadBuffer runs that chain to completion and returns a Buffer, the
// immutable mono PCM16 block that grains read from:
//
//	buf, err := audio.LoadBuffer(src, 48000)
//
// A Buffer never changes after construction, so any number of grains
// may hold the same pointer. Buffer.At clamps its index into range,
// which lets interpolating readers touch one sample past either edge.
//
// LoadChannels keeps channels apart instead of folding them, for
// engines that run one grain manager per channel.
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForPath("loop.wav")
//
// # Error Handling
//
// Sources return io.EOF when no more data is available; any other error
// comes from the underlying stream and is wrapped with %w.
package audio
