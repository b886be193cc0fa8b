// SPDX-License-Identifier: EPL-2.0

package main

import (
	"slices"

	"github.com/ik5/granular/note"
)

const (
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
)

// noteTracker turns MIDI note messages into controls for a single
// voice. The most recent held note sets the pitch relative to root and
// the gate closes when the last note is released.
type noteTracker struct {
	root uint8
	held []uint8
}

func (t *noteTracker) message(data []byte) (control, bool) {
	if len(data) < 3 {
		return control{}, false
	}
	status, n, velocity := data[0]&0xF0, data[1], data[2]

	switch {
	case status == statusNoteOn && velocity > 0:
		t.held = slices.DeleteFunc(t.held, func(h uint8) bool { return h == n })
		t.held = append(t.held, n)
		return control{
			trigger: len(t.held) == 1,
			gate:    true,
			retune:  true,
			semis:   note.Semitones(n, t.root),
		}, true

	case status == statusNoteOff || status == statusNoteOn:
		i := slices.Index(t.held, n)
		if i < 0 {
			return control{}, false
		}
		t.held = slices.Delete(t.held, i, i+1)
		if len(t.held) == 0 {
			return gateControl(false), true
		}
		// the sounding note went away, fall back to the previous one
		if i == len(t.held) {
			return control{retune: true, semis: note.Semitones(t.held[i-1], t.root)}, true
		}
	}

	return control{}, false
}
