// SPDX-License-Identifier: EPL-2.0

package granular

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/grain"
	"github.com/ik5/granular/mixdown"
	"github.com/ik5/granular/resample"
	"github.com/ik5/granular/utils"
	"github.com/ik5/granular/window"
)

type modulator interface {
	Next() float64
}

// voice is one grain manager plus its position modulator.
type voice struct {
	m      *grain.Manager
	mod    modulator
	anchor int
	depth  float64
	pos    int
}

func (v *voice) next() int16 {
	if v.mod != nil {
		pos := v.anchor + int(math.Round((2*v.mod.Next()-1)*v.depth))
		if pos != v.pos {
			v.pos = pos
			v.m.SetPosition(pos)
		}
	}
	return v.m.NextSample()
}

// Render implements mixdown.Renderer.
func (v *voice) Render(dst []int16) {
	for i := range dst {
		dst[i] = v.next()
	}
}

// Engine runs one grain manager per source channel and chord note.
// Output is interleaved by channel; the notes of a channel are averaged.
//
// Process and Render advance the same managers, so an Engine must be
// driven from one goroutine at a time.
type Engine struct {
	cfg    Config
	voices [][]*voice
	detune []float64
	quant  []*mixdown.Quantizer
}

// NewEngine builds an engine over channels, which must all be at
// cfg.SampleRate. The gate starts closed.
func NewEngine(cfg Config, channels ...*audio.Buffer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}

	kind, _ := window.ParseKind(cfg.Window)
	kernel, _ := resample.ParseKernel(cfg.Kernel)
	notes := cfg.notes()

	e := &Engine{
		cfg:    cfg,
		voices: make([][]*voice, len(channels)),
		detune: mixdown.DistributeUniform(len(channels), 0, cfg.Spread),
		quant:  make([]*mixdown.Quantizer, len(channels)),
	}

	for c, src := range channels {
		if src == nil {
			return nil, fmt.Errorf("%w: channel %d is nil", ErrNoChannels, c)
		}
		if src.SampleRate() != cfg.SampleRate {
			return nil, fmt.Errorf("%w: channel %d at %d Hz, engine at %d Hz",
				ErrRateMismatch, c, src.SampleRate(), cfg.SampleRate)
		}

		mode, err := cfg.mode(src.Len())
		if err != nil {
			return nil, err
		}

		for n, semis := range notes {
			seed := cfg.Seed + int64(c*len(notes)+n)

			m, err := grain.NewManager(cfg.envelope())
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", c, err)
			}
			m.SetSeed(seed)
			m.SetWindow(kind)
			m.SetKernel(kernel)
			m.SetPitchEnabled(cfg.pitched())
			if err := m.SetWindowDepth(cfg.WindowDepth); err != nil {
				return nil, err
			}
			if err := m.SetMakeupGain(cfg.MakeupGain); err != nil {
				return nil, err
			}
			if err := m.Populate(cfg.Grains, src, mode); err != nil {
				return nil, fmt.Errorf("channel %d: populating %s: %w", c, mode, err)
			}
			if err := m.SetGlobalPitch(semis + e.detune[c]); err != nil {
				return nil, err
			}

			v := &voice{m: m, anchor: mode.Anchor(), pos: mode.Anchor()}
			if cfg.LFO.Depth > 0 {
				if v.mod, err = cfg.modulator(seed); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
				}
				v.depth = float64(cfg.LFO.Depth)
			}
			e.voices[c] = append(e.voices[c], v)
		}

		q, err := mixdown.NewQuantizer(cfg.Dither, cfg.Seed+int64(c))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		e.quant[c] = q
	}

	return e, nil
}

func (e *Engine) Config() Config  { return e.cfg }
func (e *Engine) Channels() int   { return len(e.voices) }
func (e *Engine) SampleRate() int { return e.cfg.SampleRate }
func (e *Engine) Layers() int     { return len(e.voices[0]) }

// Manager returns the manager for one channel and chord layer.
func (e *Engine) Manager(channel, layer int) (*grain.Manager, error) {
	if channel < 0 || channel >= len(e.voices) || layer < 0 || layer >= len(e.voices[channel]) {
		return nil, fmt.Errorf("%w: channel %d layer %d", grain.ErrGrainIndex, channel, layer)
	}
	return e.voices[channel][layer].m, nil
}

// Trigger opens or closes the gate of every manager.
func (e *Engine) Trigger(on bool) {
	for _, vs := range e.voices {
		for _, v := range vs {
			v.m.TriggerGate(on)
		}
	}
}

// Transpose shifts every layer by semitones on top of the configured
// pitch, chord and spread. It has no audible effect on unpitched engines.
func (e *Engine) Transpose(semitones float64) error {
	notes := e.cfg.notes()
	for c, vs := range e.voices {
		for n, v := range vs {
			if err := v.m.SetGlobalPitch(notes[n] + e.detune[c] + semitones); err != nil {
				return err
			}
		}
	}
	return nil
}

// Process fills dst with interleaved frames for realtime output. Layers
// are summed in int32 and divided, like the managers mix grains. It
// does not allocate.
func (e *Engine) Process(dst []int16) error {
	channels := len(e.voices)
	if len(dst)%channels != 0 {
		return fmt.Errorf("%w: %d samples over %d channels", ErrPartialFrame, len(dst), channels)
	}

	for f := 0; f < len(dst); f += channels {
		for c, vs := range e.voices {
			var sum int32
			for _, v := range vs {
				sum += int32(v.next())
			}
			dst[f+c] = utils.ClampInt32(sum / int32(len(vs)))
		}
	}
	return nil
}

// Render bounces frames of every channel offline and returns them
// interleaved. Chord layers render concurrently and are averaged in
// floating point before dithered quantization.
func (e *Engine) Render(ctx context.Context, frames int) ([]int16, error) {
	if frames < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeFrames, frames)
	}

	out := make([][]int16, len(e.voices))

	g, ctx := errgroup.WithContext(ctx)
	for c, vs := range e.voices {
		g.Go(func() error {
			layers := make([]mixdown.Layer, len(vs))
			for i, v := range vs {
				layers[i] = mixdown.Layer{Source: v, Gain: 1}
			}

			mix, err := mixdown.Bounce(ctx, layers, frames)
			if err != nil {
				return fmt.Errorf("channel %d: %w", c, err)
			}

			out[c] = make([]int16, frames)
			return e.quant[c].Quantize(out[c], mix)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mixdown.Interleave(out...)
}

// Tail is the number of frames the release stage needs after the gate
// closes.
func (e *Engine) Tail() int {
	return int(math.Ceil(e.cfg.Envelope.Release * float64(e.cfg.SampleRate)))
}
