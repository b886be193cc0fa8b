// SPDX-License-Identifier: EPL-2.0

package granular

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/ik5/granular/envelope"
	"github.com/ik5/granular/grain"
	"github.com/ik5/granular/lfo"
	"github.com/ik5/granular/resample"
	"github.com/ik5/granular/window"
)

const (
	// MaxGrains is the largest population a Config may ask for.
	MaxGrains = grain.MaxGrains
	// MaxSampleRate is the highest engine rate in Hz.
	MaxSampleRate = int(envelope.MaxSampleRate)
)

// Config is an engine preset. It is usually read from JSON with
// LoadConfig and then adjusted by command-line flags.
type Config struct {
	SampleRate int    `json:"sample_rate"`
	Mode       string `json:"mode"`
	Grains     int    `json:"grains"`

	// Cascade span; Upper 0 means the end of the source.
	Lower int `json:"lower,omitempty"`
	Upper int `json:"upper,omitempty"`

	// Cloud shape; CloudLength 0 means an eighth of the source.
	CloudLength int     `json:"cloud_length,omitempty"`
	Variation   float64 `json:"variation,omitempty"`
	Start       int     `json:"start,omitempty"`

	// Pitch is the global transposition in semitones. Chord adds one
	// layer per entry, each offset from Pitch.
	Pitch        float64   `json:"pitch"`
	Chord        []float64 `json:"chord,omitempty"`
	PitchEnabled bool      `json:"pitch_enabled"`

	// Spread detunes the channels against each other: channel c of n is
	// raised by c/n of Spread semitones.
	Spread float64 `json:"spread,omitempty"`

	MakeupGain  float64 `json:"makeup_gain"`
	Window      string  `json:"window"`
	WindowDepth float64 `json:"window_depth"`
	Kernel      string  `json:"kernel"`
	Seed        int64   `json:"seed"`

	// Dither is the TPDF dither amplitude in LSB applied on the offline
	// render path.
	Dither float64 `json:"dither"`

	Envelope envelope.Config `json:"envelope"`
	LFO      LFOConfig       `json:"lfo"`
}

// LFOConfig modulates the population position. Depth is the swing in
// samples on each side of the anchor; 0 turns modulation off.
type LFOConfig struct {
	Shape string  `json:"shape"`
	Rate  float64 `json:"rate"`
	Sync  string  `json:"sync,omitempty"`
	BPM   float64 `json:"bpm,omitempty"`
	Slew  float64 `json:"slew,omitempty"`
	Depth int     `json:"depth"`
}

// random selects the sample and hold source instead of an oscillator.
const random = "random"

func DefaultConfig() Config {
	env := envelope.DefaultConfig()
	env.SampleRate = 44100

	return Config{
		SampleRate:   44100,
		Mode:         grain.SequenceMode.String(),
		Grains:       8,
		Variation:    1,
		PitchEnabled: true,
		MakeupGain:   1,
		Window:       window.Hann.String(),
		WindowDepth:  1,
		Kernel:       resample.Linear.String(),
		Seed:         1,
		Envelope:     env,
		LFO: LFOConfig{
			Shape: lfo.Sine.String(),
			Rate:  0.5,
		},
	}
}

// LoadConfig decodes a JSON preset on top of DefaultConfig, so a preset
// only needs the fields it changes.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decoding preset: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate %d must be in [1, %d]", ErrInvalidConfig, c.SampleRate, MaxSampleRate)
	}
	if c.Grains < 1 || c.Grains > MaxGrains {
		return fmt.Errorf("%w: grain count %d must be in [1, %d]", ErrInvalidConfig, c.Grains, MaxGrains)
	}
	if _, err := grain.ParseModeKind(c.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := window.ParseKind(c.Window); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := resample.ParseKernel(c.Kernel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for _, v := range append([]float64{c.Pitch, c.Spread, c.MakeupGain, c.WindowDepth, c.Dither}, c.Chord...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value %v", ErrInvalidConfig, v)
		}
	}
	if c.MakeupGain < 0 || c.Dither < 0 {
		return fmt.Errorf("%w: makeup gain and dither must not be negative", ErrInvalidConfig)
	}
	if c.WindowDepth < 0 || c.WindowDepth > 1 {
		return fmt.Errorf("%w: window depth %v must be in [0, 1]", ErrInvalidConfig, c.WindowDepth)
	}
	if c.Lower < 0 || c.Upper < 0 || c.CloudLength < 0 || c.Start < 0 {
		return fmt.Errorf("%w: positions must not be negative", ErrInvalidConfig)
	}

	if err := c.envelope().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.LFO.Depth < 0 {
		return fmt.Errorf("%w: lfo depth %d", ErrInvalidConfig, c.LFO.Depth)
	}
	if c.LFO.Depth > 0 {
		if _, err := c.modulator(0); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}

// envelope returns the envelope settings at the engine sample rate.
func (c Config) envelope() envelope.Config {
	env := c.Envelope
	env.SampleRate = float64(c.SampleRate)
	return env
}

// notes lists the transposition of every layer in semitones.
func (c Config) notes() []float64 {
	if len(c.Chord) == 0 {
		return []float64{c.Pitch}
	}

	out := make([]float64, len(c.Chord))
	for i, n := range c.Chord {
		out[i] = c.Pitch + n
	}
	return out
}

// pitched reports whether grains follow their rate. Any transposition
// implies it.
func (c Config) pitched() bool {
	return c.PitchEnabled || c.Pitch != 0 || c.Spread != 0 || len(c.Chord) > 0
}

// mode builds the population strategy for a source of n samples.
func (c Config) mode(n int) (grain.Mode, error) {
	kind, err := grain.ParseModeKind(c.Mode)
	if err != nil {
		return grain.Mode{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch kind {
	case grain.CascadeMode:
		upper := c.Upper
		if upper == 0 {
			upper = n
		}
		return grain.Cascade(c.Lower, upper), nil
	case grain.CloudMode:
		length := c.CloudLength
		if length == 0 {
			length = max(n/8, 1)
		}
		return grain.Cloud(length, c.Variation, c.Start), nil
	}

	return grain.Sequence(), nil
}

// modulator builds the position source of one layer.
func (c Config) modulator(seed int64) (modulator, error) {
	rate := float64(c.SampleRate)

	var timing *lfo.Timing
	if c.LFO.Sync != "" {
		t, err := lfo.ParseTiming(c.LFO.Sync, c.LFO.BPM)
		if err != nil {
			return nil, err
		}
		timing = &t
	}

	if c.LFO.Shape == random {
		sh, err := lfo.NewSampleAndHold(rate, seed)
		if err != nil {
			return nil, err
		}
		if err := sh.SetSlew(c.LFO.Slew); err != nil {
			return nil, err
		}
		if err := retime(sh, timing, c.LFO.Rate); err != nil {
			return nil, err
		}
		return sh, nil
	}

	shape, err := lfo.ParseShape(c.LFO.Shape)
	if err != nil {
		return nil, err
	}
	osc, err := lfo.New(shape, rate)
	if err != nil {
		return nil, err
	}
	if err := retime(osc, timing, c.LFO.Rate); err != nil {
		return nil, err
	}
	return osc, nil
}

type clock interface {
	SetFrequency(hz float64) error
	Sync(t lfo.Timing) error
}

func retime(c clock, t *lfo.Timing, hz float64) error {
	if t != nil {
		return c.Sync(*t)
	}
	return c.SetFrequency(hz)
}
