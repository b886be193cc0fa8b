// SPDX-License-Identifier: EPL-2.0

package lfo

import (
	"fmt"
	"strings"
)

// Division is a note length relative to a 4/4 bar.
type Division uint8

const (
	Whole Division = iota
	Half
	Quarter
	Eighth
	Sixteenth
)

func (d Division) divisor() float64 {
	switch d {
	case Whole:
		return 1
	case Half:
		return 2
	case Eighth:
		return 8
	case Sixteenth:
		return 16
	}
	return 4
}

// Modifier stretches a Division.
type Modifier uint8

const (
	Regular Modifier = iota
	Dotted           // 3/2 of the plain length
	Triplet          // 2/3 of the plain length
)

func (m Modifier) scale() float64 {
	switch m {
	case Dotted:
		return 1.5
	case Triplet:
		return 2.0 / 3.0
	}
	return 1
}

// Timing is a tempo-relative duration.
type Timing struct {
	Division Division
	Modifier Modifier
	BPM      float64
}

// Seconds returns the duration of t. A bar lasts 240/BPM seconds.
func (t Timing) Seconds() (float64, error) {
	if !(t.BPM > 0) {
		return 0, fmt.Errorf("%w: %v bpm", ErrInvalidTempo, t.BPM)
	}
	return 240 / t.BPM / t.Division.divisor() * t.Modifier.scale(), nil
}

// Samples returns the duration of t in whole samples at sampleRate.
func (t Timing) Samples(sampleRate float64) (int, error) {
	s, err := t.Seconds()
	if err != nil {
		return 0, err
	}
	return int(s * sampleRate), nil
}

// ParseTiming reads a note value such as "1/4", "1/8d" (dotted) or
// "1/16t" (triplet) at the given tempo.
func ParseTiming(s string, bpm float64) (Timing, error) {
	t := Timing{BPM: bpm}

	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasSuffix(s, "d"):
		t.Modifier = Dotted
		s = strings.TrimSuffix(s, "d")
	case strings.HasSuffix(s, "t"):
		t.Modifier = Triplet
		s = strings.TrimSuffix(s, "t")
	}

	switch s {
	case "1", "1/1":
		t.Division = Whole
	case "1/2":
		t.Division = Half
	case "1/4":
		t.Division = Quarter
	case "1/8":
		t.Division = Eighth
	case "1/16":
		t.Division = Sixteenth
	default:
		return Timing{}, fmt.Errorf("%w: %q", ErrUnknownDivision, s)
	}

	if _, err := t.Seconds(); err != nil {
		return Timing{}, err
	}
	return t, nil
}
