// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"fmt"
	"math"
)

const (
	// MaxStageSeconds bounds each stage so table sizes stay sane.
	MaxStageSeconds = 60.0
	// MaxCurve bounds the curve shape; e^k must stay finite.
	MaxCurve = 50.0
	// MaxSampleRate is the highest rate the tables are built for.
	MaxSampleRate = 768000.0
)

// Config holds the ADSR parameters. Times are in seconds; curves shape
// each stage (0 is linear, positive bends convex, negative concave).
type Config struct {
	SampleRate   float64 `json:"sample_rate"`
	Attack       float64 `json:"attack"`
	AttackCurve  float64 `json:"attack_curve"`
	Decay        float64 `json:"decay"`
	DecayCurve   float64 `json:"decay_curve"`
	Sustain      float64 `json:"sustain"`
	Release      float64 `json:"release"`
	ReleaseCurve float64 `json:"release_curve"`
}

// DefaultConfig mirrors a slow pad: 2.5 s attack, 1 s decay to 0.75,
// 2 s release.
func DefaultConfig() Config {
	return Config{
		SampleRate:   44100,
		Attack:       2.5,
		AttackCurve:  3,
		Decay:        1,
		DecayCurve:   -3,
		Sustain:      0.75,
		Release:      2,
		ReleaseCurve: -5,
	}
}

// Validate checks every field. A valid config always yields a release
// table that falls monotonically from the sustain level to 0, which the
// release re-entry search relies on.
func (c Config) Validate() error {
	if !finite(c.SampleRate) || c.SampleRate <= 0 || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate %v must be in (0, %v]", ErrInvalidConfig, c.SampleRate, MaxSampleRate)
	}

	stages := []struct {
		name        string
		time, curve float64
	}{
		{"attack", c.Attack, c.AttackCurve},
		{"decay", c.Decay, c.DecayCurve},
		{"release", c.Release, c.ReleaseCurve},
	}
	for _, s := range stages {
		if !finite(s.time) || s.time < 0 || s.time > MaxStageSeconds {
			return fmt.Errorf("%w: %s time %v must be in [0, %v]", ErrInvalidConfig, s.name, s.time, MaxStageSeconds)
		}
		if !finite(s.curve) || math.Abs(s.curve) > MaxCurve {
			return fmt.Errorf("%w: %s curve %v must be in [-%v, %v]", ErrInvalidConfig, s.name, s.curve, MaxCurve, MaxCurve)
		}
	}

	if !finite(c.Sustain) || c.Sustain < 0 || c.Sustain > 1 {
		return fmt.Errorf("%w: sustain %v must be in [0, 1]", ErrInvalidConfig, c.Sustain)
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
