// SPDX-License-Identifier: EPL-2.0

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ik5/granular"
	"github.com/ik5/granular/formats/wav"
	"github.com/ik5/granular/window"
)

// slice writes each grain of a Sequence layout to its own WAV file.
func slice(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("slice", flag.ContinueOnError)
	fs.SetOutput(out)
	in := fs.String("in", "", "source audio file")
	dir := fs.String("out-dir", ".", "directory for grain_NNN.wav files")
	grains := fs.Int("grains", 8, "number of grains")
	win := fs.String("window", "hann", "taper: hann or none")
	rate := fs.Int("rate", 44100, "output sample rate in Hz")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("%w: -in is required", errUsage)
	}

	kind, err := window.ParseKind(*win)
	if err != nil {
		return err
	}

	chans, err := loadSource(*in, *rate, false)
	if err != nil {
		return err
	}

	parts, err := granular.Slice(chans[0], *grains, kind)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return fmt.Errorf("%w", err)
	}

	for i, p := range parts {
		path := filepath.Join(*dir, fmt.Sprintf("grain_%03d.wav", i))
		if err := writeGrain(path, *rate, p); err != nil {
			return err
		}
	}

	log.Printf("wrote %d grains to %s", len(parts), *dir)
	return nil
}

func writeGrain(path string, rate int, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := wav.WritePCM16(f, rate, 1, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
