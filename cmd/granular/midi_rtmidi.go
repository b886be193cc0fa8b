// SPDX-License-Identifier: EPL-2.0

//go:build midi && !headless

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"gitlab.com/gomidi/rtmididrv"
)

var errNoMIDIInput = errors.New("no MIDI input found")

// listenMIDI opens the first MIDI input and forwards note controls,
// relative to root, to ctl until ctx is done.
func listenMIDI(ctx context.Context, root uint8, ctl chan<- control) error {
	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("opening MIDI driver: %w", err)
	}

	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return fmt.Errorf("listing MIDI inputs: %w", err)
	}
	if len(ins) == 0 {
		drv.Close()
		return errNoMIDIInput
	}

	in := ins[0]
	if err := in.Open(); err != nil {
		drv.Close()
		return fmt.Errorf("opening MIDI input %s: %w", in, err)
	}

	msgs := make(chan []byte, 256)
	err = in.SetListener(func(data []byte, _ int64) {
		select {
		case msgs <- slices.Clone(data):
		default:
		}
	})
	if err != nil {
		in.Close()
		drv.Close()
		return fmt.Errorf("listening on %s: %w", in, err)
	}
	log.Printf("MIDI input: %s", in)

	go func() {
		defer func() {
			if err := in.StopListening(); err != nil {
				log.Printf("stopping MIDI listener: %v", err)
			}
			if err := in.Close(); err != nil {
				log.Printf("closing MIDI input: %v", err)
			}
			if err := drv.Close(); err != nil {
				log.Printf("closing MIDI driver: %v", err)
			}
		}()

		notes := noteTracker{root: root}
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-msgs:
				c, ok := notes.message(m)
				if !ok {
					continue
				}
				select {
				case ctl <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}
