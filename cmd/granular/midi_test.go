// SPDX-License-Identifier: EPL-2.0

package main

import "testing"

func TestNoteTracker(t *testing.T) {
	t.Parallel()

	type step struct {
		msg  []byte
		want control
		ok   bool
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "single note",
			steps: []step{
				{msg: []byte{0x90, 60, 100}, want: control{trigger: true, gate: true, retune: true}, ok: true},
				{msg: []byte{0x80, 60, 0}, want: gateControl(false), ok: true},
			},
		},
		{
			name: "legato falls back to the held note",
			steps: []step{
				{msg: []byte{0x90, 48, 90}, want: control{trigger: true, gate: true, retune: true, semis: -12}, ok: true},
				{msg: []byte{0x90, 67, 90}, want: control{gate: true, retune: true, semis: 7}, ok: true},
				{msg: []byte{0x80, 67, 0}, want: control{retune: true, semis: -12}, ok: true},
				{msg: []byte{0x80, 48, 0}, want: gateControl(false), ok: true},
			},
		},
		{
			name: "releasing a silent note changes nothing",
			steps: []step{
				{msg: []byte{0x90, 60, 90}, want: control{trigger: true, gate: true, retune: true}, ok: true},
				{msg: []byte{0x90, 64, 90}, want: control{gate: true, retune: true, semis: 4}, ok: true},
				{msg: []byte{0x80, 60, 0}},
				{msg: []byte{0x80, 64, 0}, want: gateControl(false), ok: true},
			},
		},
		{
			name: "zero velocity note on is a release, any channel",
			steps: []step{
				{msg: []byte{0x93, 62, 80}, want: control{trigger: true, gate: true, retune: true, semis: 2}, ok: true},
				{msg: []byte{0x93, 62, 0}, want: gateControl(false), ok: true},
			},
		},
		{
			name: "ignored messages",
			steps: []step{
				{msg: []byte{0xB0, 1, 64}},
				{msg: []byte{0x90, 60}},
				{msg: []byte{0x80, 61, 0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			notes := noteTracker{root: 60}
			for i, s := range tt.steps {
				got, ok := notes.message(s.msg)
				if ok != s.ok || got != s.want {
					t.Errorf("step %d: message(% x) = %+v, %v, want %+v, %v", i, s.msg, got, ok, s.want, s.ok)
				}
			}
		})
	}
}
