// SPDX-License-Identifier: EPL-2.0

// Package granular is a granular-synthesis engine over fixed PCM16
// buffers.
//
// A source file is decoded by one of the bundled decoders (WAV, AIFF,
// MP3, Ogg Vorbis), converted to the engine rate and kept immutable.
// Grain managers from the grain subpackage slice it into looping,
// repitched, windowed grains under one of three population strategies:
//
//   - sequence: contiguous grains played one after another
//   - cascade: grains that start across a span and share its end
//   - cloud: randomly stretched grains around a start point
//
// An ADSR envelope from the envelope subpackage gates the mix.
//
// # Engine
//
// Engine ties the pieces together from a Config. It runs one manager
// per source channel and chord note, optionally sweeping the
// population position with an LFO or a sample and hold source:
//
//	reg := granular.NewRegistry()
//	cfg := granular.DefaultConfig()
//	cfg.Mode = "cloud"
//	cfg.Chord = []float64{0, 4, 7}
//
//	chans, err := granular.LoadFile(reg, "pad.wav", cfg.SampleRate, false)
//	if err != nil {
//	    return err
//	}
//	eng, err := granular.NewEngine(cfg, chans...)
//	if err != nil {
//	    return err
//	}
//
//	eng.Trigger(true)
//	pcm, err := eng.Render(ctx, 10*cfg.SampleRate)
//
// Render bounces chord layers concurrently and dithers the result.
// Process renders in place without allocating, for realtime output.
//
// # Presets
//
// LoadConfig reads a JSON preset on top of DefaultConfig:
//
//	{
//	  "mode": "cascade",
//	  "grains": 16,
//	  "pitch": -12,
//	  "envelope": {"attack": 0.5, "sustain": 1, "release": 3},
//	  "lfo": {"shape": "triangle", "sync": "1/4d", "bpm": 96, "depth": 2000}
//	}
package granular
