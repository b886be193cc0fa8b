// SPDX-License-Identifier: EPL-2.0

package note

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// A0 is the lowest named note.
	A0 = 21
	// C5 is the default root.
	C5 = 72
)

// offsets from A with the same octave number; Cb and B# cross into the
// neighbouring octave
var offsets = map[string]int{
	"a": 0, "a#": 1, "bb": 1, "b": 2, "b#": 3,
	"cb": -10, "c": -9, "c#": -8, "db": -8, "d": -7,
	"d#": -6, "eb": -6, "e": -5, "fb": -5, "f": -4, "e#": -4,
	"f#": -3, "gb": -3, "g": -2, "g#": -1, "ab": -1,
}

// Parse returns the MIDI number of a note name (letter, optional # or
// b, octave 0 to 8) or of a plain number in [0, 127].
func Parse(name string) (uint8, error) {
	name = strings.TrimSpace(name)
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("%w: %d out of MIDI range", ErrInvalidName, n)
		}
		return uint8(n), nil
	}

	if len(name) < 2 || len(name) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	octave := name[len(name)-1]
	if octave < '0' || octave > '8' {
		return 0, fmt.Errorf("%w: %q needs an octave from 0 to 8", ErrInvalidName, name)
	}
	off, ok := offsets[strings.ToLower(name[:len(name)-1])]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return uint8(A0 + 12*int(octave-'0') + off), nil
}

// Semitones is the distance from root to n.
func Semitones(n, root uint8) float64 {
	return float64(int(n) - int(root))
}

// Event is one step of a sequence: a note, or a rest that closes the
// gate, held for Seconds.
type Event struct {
	Note    uint8
	Rest    bool
	Seconds float64
}

// ParseSequence reads comma separated name:seconds steps, for example
// "C5:1,E5:0.5,-:0.5,G5:1". A "-" name is a rest.
func ParseSequence(s string) ([]Event, error) {
	var seq []Event
	for step := range strings.SplitSeq(s, ",") {
		name, dur, ok := strings.Cut(strings.TrimSpace(step), ":")
		if !ok {
			return nil, fmt.Errorf("%w: step %q is not name:seconds", ErrInvalidSequence, step)
		}

		secs, err := strconv.ParseFloat(dur, 64)
		if err != nil || !(secs > 0) || math.IsInf(secs, 1) {
			return nil, fmt.Errorf("%w: step %q needs a positive duration", ErrInvalidSequence, step)
		}

		ev := Event{Seconds: secs}
		if name == "-" {
			ev.Rest = true
		} else if ev.Note, err = Parse(name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSequence, err)
		}
		seq = append(seq, ev)
	}
	return seq, nil
}
