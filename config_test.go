// SPDX-License-Identifier: EPL-2.0

package granular

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ik5/granular/grain"
	"github.com/ik5/granular/lfo"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Envelope.SampleRate != float64(cfg.SampleRate) {
		t.Errorf("envelope rate %v, engine rate %d", cfg.Envelope.SampleRate, cfg.SampleRate)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	preset := `{
		"mode": "cascade",
		"grains": 16,
		"pitch": -12,
		"chord": [0, 7],
		"kernel": "hermite",
		"envelope": {"attack": 0.5, "sustain": 1, "release": 3},
		"lfo": {"shape": "triangle", "sync": "1/4d", "bpm": 96, "depth": 2000}
	}`

	cfg, err := LoadConfig(strings.NewReader(preset))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	def := DefaultConfig()
	switch {
	case cfg.Mode != "cascade" || cfg.Grains != 16 || cfg.Pitch != -12:
		t.Errorf("preset fields not applied: %+v", cfg)
	case cfg.Kernel != "hermite" || cfg.LFO.Sync != "1/4d" || cfg.LFO.Depth != 2000:
		t.Errorf("nested fields not applied: %+v", cfg)
	case cfg.SampleRate != def.SampleRate || cfg.Window != def.Window:
		t.Errorf("defaults lost: %+v", cfg)
	case cfg.Envelope.Attack != 0.5 || cfg.Envelope.Decay != def.Envelope.Decay:
		t.Errorf("envelope = %+v, want attack 0.5 over defaults", cfg.Envelope)
	}

	if got := cfg.notes(); len(got) != 2 || got[0] != -12 || got[1] != -5 {
		t.Errorf("notes() = %v, want [-12 -5]", got)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		preset string
	}{
		{name: "syntax", preset: `{"grains": `},
		{name: "unknown field", preset: `{"grain_count": 4}`},
		{name: "wrong type", preset: `{"grains": "many"}`},
		{name: "invalid value", preset: `{"grains": 0}`},
	}

	for _, tt := range tests {
		if _, err := LoadConfig(strings.NewReader(tt.preset)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, ErrInvalidConfig)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "zero rate", mutate: func(c *Config) { c.SampleRate = 0 }},
		{name: "rate too high", mutate: func(c *Config) { c.SampleRate = MaxSampleRate + 1 }},
		{name: "no grains", mutate: func(c *Config) { c.Grains = 0 }},
		{name: "too many grains", mutate: func(c *Config) { c.Grains = MaxGrains + 1 }},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "granite" }, wantErr: grain.ErrInvalidParam},
		{name: "unknown window", mutate: func(c *Config) { c.Window = "tukey" }},
		{name: "unknown kernel", mutate: func(c *Config) { c.Kernel = "cubic" }},
		{name: "nan pitch", mutate: func(c *Config) { c.Pitch = math.NaN() }},
		{name: "infinite spread", mutate: func(c *Config) { c.Spread = math.Inf(-1) }},
		{name: "infinite chord note", mutate: func(c *Config) { c.Chord = []float64{0, math.Inf(1)} }},
		{name: "negative gain", mutate: func(c *Config) { c.MakeupGain = -1 }},
		{name: "negative dither", mutate: func(c *Config) { c.Dither = -0.5 }},
		{name: "window depth", mutate: func(c *Config) { c.WindowDepth = 1.5 }},
		{name: "negative start", mutate: func(c *Config) { c.Start = -1 }},
		{name: "sustain", mutate: func(c *Config) { c.Envelope.Sustain = 2 }},
		{name: "negative lfo depth", mutate: func(c *Config) { c.LFO.Depth = -1 }},
		{name: "lfo shape", mutate: func(c *Config) { c.LFO.Depth, c.LFO.Shape = 10, "saw" }, wantErr: lfo.ErrUnknownShape},
		{name: "lfo rate", mutate: func(c *Config) { c.LFO.Depth, c.LFO.Rate = 10, 0 }, wantErr: lfo.ErrInvalidFrequency},
		{name: "lfo tempo", mutate: func(c *Config) { c.LFO.Depth, c.LFO.Sync = 10, "1/8" }, wantErr: lfo.ErrInvalidTempo},
		{name: "lfo slew", mutate: func(c *Config) {
			c.LFO.Depth, c.LFO.Shape, c.LFO.Slew = 10, "random", -1
		}, wantErr: lfo.ErrInvalidSlew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want %v", err, ErrInvalidConfig)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want it to wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Mode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want grain.Mode
	}{
		{name: "sequence", cfg: Config{Mode: "sequence"}, want: grain.Sequence()},
		{name: "cascade to end", cfg: Config{Mode: "cascade", Lower: 100}, want: grain.Cascade(100, 800)},
		{name: "cascade span", cfg: Config{Mode: "Cascade", Lower: 100, Upper: 300}, want: grain.Cascade(100, 300)},
		{name: "cloud default length", cfg: Config{Mode: "cloud", Variation: 0.5, Start: 20}, want: grain.Cloud(100, 0.5, 20)},
		{name: "cloud length", cfg: Config{Mode: "cloud", CloudLength: 64}, want: grain.Cloud(64, 0, 0)},
	}

	for _, tt := range tests {
		got, err := tt.cfg.mode(800)
		if err != nil {
			t.Errorf("%s: mode() error = %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: mode() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestConfig_Pitched(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	if cfg.pitched() {
		t.Error("zero config should not be pitched")
	}
	cfg.Chord = []float64{0, 3}
	if !cfg.pitched() {
		t.Error("a chord implies pitched grains")
	}
	if !(Config{Spread: 0.1}).pitched() {
		t.Error("a spread implies pitched grains")
	}
}
