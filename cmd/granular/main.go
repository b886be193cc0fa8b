// SPDX-License-Identifier: EPL-2.0

// Command granular renders, slices and plays granular textures from an
// audio file.
//
//	granular render -in pad.wav -out out.wav -mode cloud -chord 0,4,7
//	granular render -in pad.wav -out line.wav -notes C5:1,E5:1,-:0.5,G5:2 -plot line.png
//	granular render -in pad.wav -out out.wav -preset shimmer.lua
//	granular render -in pad.wav -out wide.wav -stereo -spread 0.1 -normalize 0.9
//	granular slice -in pad.wav -out-dir grains -grains 16
//	granular play -in pad.wav -mode cascade
//
// Building with -tags midi adds play -midi, which takes notes from the
// first MIDI input; -tags headless leaves out audio output entirely.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

var errUsage = errors.New("usage: granular <render|slice|play> [flags]")

func main() {
	log.SetFlags(log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("error: %v\n", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "render":
		return render(ctx, args[1:], out)
	case "slice":
		return slice(args[1:], out)
	case "play":
		return play(ctx, args[1:], out)
	case "-h", "-help", "--help", "help":
		fmt.Fprintln(out, errUsage)
		return nil
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}
