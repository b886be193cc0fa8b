// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"golang.org/x/term"
)

const (
	keyGate   = ' '
	keyQuit   = 'q'
	keyCtrlC  = 3
	keyCtrlD  = 4
	bufferDur = 50 * time.Millisecond
)

// play streams the engine to the default audio device. Space toggles
// the gate and q quits; without a terminal the gate stays open until
// the process is interrupted. With -midi, notes on the first MIDI input
// open the gate and transpose relative to -root.
func play(ctx context.Context, args []string, out io.Writer) error {
	f := newEngineFlags("play", out)
	useMIDI := f.fs.Bool("midi", false, "play notes from the first MIDI input")
	if err := f.fs.Parse(args); err != nil {
		return err
	}

	eng, err := f.engine(ctx)
	if err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   eng.SampleRate(),
		ChannelCount: eng.Channels(),
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferDur,
	})
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	ctl := make(chan control, 8)
	open := !*useMIDI
	if *useMIDI {
		root, err := f.rootNote()
		if err != nil {
			return err
		}
		if err := listenMIDI(ctx, root, ctl); err != nil {
			return err
		}
	} else {
		ctl <- gateControl(true)
	}

	player := otoCtx.NewPlayer(newStream(eng, ctl))
	defer player.Close()
	player.Play()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys, restore, err := rawKeys(ctx)
	if err != nil {
		log.Printf("keyboard control disabled: %v", err)
		<-ctx.Done()
		return player.Err()
	}
	defer restore()

	fmt.Fprint(out, "space: gate on/off, q: quit\r\n")

	for {
		select {
		case <-ctx.Done():
			return player.Err()
		case k, ok := <-keys:
			if !ok {
				return player.Err()
			}
			switch k {
			case keyGate:
				open = !open
				ctl <- gateControl(open)
			case keyQuit, 'Q', keyCtrlC, keyCtrlD:
				return player.Err()
			}
		}
	}
}

// rawKeys puts stdin into raw mode and delivers single key presses
// until ctx is done.
func rawKeys(ctx context.Context) (<-chan byte, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil, fmt.Errorf("stdin is not a terminal")
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("setting raw mode: %w", err)
	}

	return readKeys(ctx, os.Stdin), func() { _ = term.Restore(fd, state) }, nil
}
