// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"io"

	"github.com/ik5/granular"
)

// control is one change for the engine, queued by keyboard or MIDI
// input. trigger applies gate; retune applies semis as a transposition.
type control struct {
	trigger bool
	gate    bool
	retune  bool
	semis   float64
}

func gateControl(on bool) control { return control{trigger: true, gate: on} }

// stream feeds engine output to an audio device as interleaved
// little-endian int16. Controls are applied on the reading goroutine,
// so the engine is only touched from there.
type stream struct {
	eng *granular.Engine
	ctl <-chan control
	buf []int16
}

func newStream(eng *granular.Engine, ctl <-chan control) *stream {
	return &stream{eng: eng, ctl: ctl, buf: make([]int16, 4096)}
}

func (s *stream) Read(p []byte) (int, error) {
drain:
	for {
		select {
		case c := <-s.ctl:
			if c.retune {
				if err := s.eng.Transpose(c.semis); err != nil {
					return 0, err
				}
			}
			if c.trigger {
				s.eng.Trigger(c.gate)
			}
		default:
			break drain
		}
	}

	frame := 2 * s.eng.Channels()
	n := len(p) / frame * frame
	if n == 0 {
		return 0, io.ErrShortBuffer
	}

	samples := n / 2
	if cap(s.buf) < samples {
		s.buf = make([]int16, samples)
	}
	buf := s.buf[:samples]

	if err := s.eng.Process(buf); err != nil {
		return 0, err
	}
	for i, v := range buf {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(v))
	}

	return n, nil
}
