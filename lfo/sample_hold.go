// SPDX-License-Identifier: EPL-2.0

package lfo

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ik5/granular/utils"
)

// SampleAndHold draws a new random value in [0, 1) every period and
// holds it. With a slew time it glides from the previous value instead
// of stepping.
type SampleAndHold struct {
	rng        *rand.Rand
	sampleRate float64
	freq       float64

	period  int
	counter int

	last    float64
	current float64
	glide   float64 // progress from last to current, 0..1
	slew    float64 // per-sample glide increment, 0 disables slew
	slewSec float64
}

// NewSampleAndHold returns a 1 Hz sample and hold seeded with seed.
func NewSampleAndHold(sampleRate float64, seed int64) (*SampleAndHold, error) {
	if !validPositive(sampleRate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	s := &SampleAndHold{
		rng:        rand.New(rand.NewSource(seed)),
		sampleRate: sampleRate,
		glide:      1,
	}
	_ = s.SetFrequency(1)

	return s, nil
}

func (s *SampleAndHold) Frequency() float64 { return s.freq }
func (s *SampleAndHold) SlewTime() float64  { return s.slewSec }

// SetFrequency sets how often a new value is drawn, in Hz. The period
// is at least one sample.
func (s *SampleAndHold) SetFrequency(hz float64) error {
	if !validPositive(hz) {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, hz)
	}
	s.freq = hz
	s.period = max(int(s.sampleRate/hz), 1)
	return nil
}

// Sync draws one value per t.
func (s *SampleAndHold) Sync(t Timing) error {
	sec, err := t.Seconds()
	if err != nil {
		return err
	}
	return s.SetFrequency(1 / sec)
}

// SetSlew sets the glide time between values in seconds; 0 steps.
func (s *SampleAndHold) SetSlew(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSlew, seconds)
	}
	s.slewSec = seconds
	s.slew = 0
	if n := seconds * s.sampleRate; n >= 1 {
		s.slew = 1 / n
	}
	return nil
}

// Next returns the current value and advances one sample. The first
// value is drawn on the first call.
func (s *SampleAndHold) Next() float64 {
	if s.counter == 0 {
		s.last = s.Value()
		s.current = s.rng.Float64()
		s.glide = 0
	}
	s.counter = (s.counter + 1) % s.period

	if s.slew == 0 {
		s.glide = 1
	} else {
		s.glide = min(s.glide+s.slew, 1)
	}
	return s.Value()
}

// Value is the value Next last returned.
func (s *SampleAndHold) Value() float64 {
	return utils.Lerp(s.last, s.current, s.glide)
}
