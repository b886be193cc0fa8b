// SPDX-License-Identifier: EPL-2.0

package lfo

import (
	"fmt"
	"math"
	"strings"
)

// Shape selects the Oscillator waveform.
type Shape uint8

const (
	Sine Shape = iota
	Triangle
	Square
)

func (s Shape) String() string {
	switch s {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Square:
		return "square"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// ParseShape maps a shape name (case insensitive) to its Shape.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "sine", "sin":
		return Sine, nil
	case "triangle", "tri":
		return Triangle, nil
	case "square", "sqr":
		return Square, nil
	}
	return Sine, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// eval returns the waveform at phase x in [0, 1). Sine and Triangle
// start at 0.5 rising; Square is high for the first half.
func (s Shape) eval(x float64) float64 {
	switch s {
	case Triangle:
		return 2 * math.Abs(x+0.25-math.Floor(x+0.75))
	case Square:
		switch {
		case x < 0.5:
			return 1
		case x == 0.5:
			return 0.5
		}
		return 0
	}
	return 0.5*math.Sin(2*math.Pi*x) + 0.5
}

// Oscillator is a periodic control source with output in [0, 1].
type Oscillator struct {
	shape      Shape
	sampleRate float64
	freq       float64
	phase      float64
	step       float64
}

// New returns a 1 Hz oscillator of the given shape.
func New(shape Shape, sampleRate float64) (*Oscillator, error) {
	if !validPositive(sampleRate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	o := &Oscillator{shape: shape, sampleRate: sampleRate}
	_ = o.SetFrequency(1)

	return o, nil
}

func (o *Oscillator) Shape() Shape        { return o.shape }
func (o *Oscillator) SetShape(s Shape)    { o.shape = s }
func (o *Oscillator) Frequency() float64  { return o.freq }
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }
func (o *Oscillator) Phase() float64      { return o.phase }

// SetFrequency sets a free running rate in Hz.
func (o *Oscillator) SetFrequency(hz float64) error {
	if !validPositive(hz) {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, hz)
	}
	o.freq = hz
	o.step = hz / o.sampleRate
	return nil
}

// Sync locks the period to one t.
func (o *Oscillator) Sync(t Timing) error {
	s, err := t.Seconds()
	if err != nil {
		return err
	}
	return o.SetFrequency(1 / s)
}

func (o *Oscillator) SetSampleRate(sampleRate float64) error {
	if !validPositive(sampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	o.sampleRate = sampleRate
	o.step = o.freq / sampleRate
	return nil
}

// Reset restarts the cycle.
func (o *Oscillator) Reset() { o.phase = 0 }

// Next returns the current value and advances one sample.
func (o *Oscillator) Next() float64 {
	v := o.shape.eval(o.phase)

	o.phase += o.step
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}

	return v
}

func validPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
