// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ik5/granular"
	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/note"
)

// floatList is a comma separated list flag such as -chord 0,4,7.
type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(s string) error {
	*l = (*l)[:0]
	for part := range strings.SplitSeq(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("bad list value %q: %w", part, err)
		}
		*l = append(*l, v)
	}
	return nil
}

// engineFlags are shared by the commands that drive an Engine. Only
// flags given on the command line override the preset.
type engineFlags struct {
	fs *flag.FlagSet

	in     string
	preset string
	stereo bool

	rate     int
	mode     string
	grains   int
	pitch    float64
	spread   float64
	chord    floatList
	window   string
	kernel   string
	seed     int64
	dither   float64
	lfoShape string
	lfoRate  float64
	lfoDepth int
	lfoSync  string
	bpm      float64
	root     string
}

func newEngineFlags(name string, out io.Writer) *engineFlags {
	f := &engineFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	fs := f.fs
	fs.SetOutput(out)

	fs.StringVar(&f.in, "in", "", "source audio file (wav, aiff, mp3, ogg)")
	fs.StringVar(&f.preset, "preset", "", "JSON or Lua (.lua) preset applied before flags")
	fs.BoolVar(&f.stereo, "stereo", false, "keep source channels apart instead of folding to mono")

	fs.IntVar(&f.rate, "rate", 0, "engine sample rate in Hz")
	fs.StringVar(&f.mode, "mode", "", "population mode: sequence, cascade or cloud")
	fs.IntVar(&f.grains, "grains", 0, "number of grains")
	fs.Float64Var(&f.pitch, "pitch", 0, "global pitch in semitones")
	fs.Float64Var(&f.spread, "spread", 0, "stereo detune in semitones between the first and last channel")
	fs.Var(&f.chord, "chord", "comma separated semitone offsets, one layer each")
	fs.StringVar(&f.window, "window", "", "grain window: hann or none")
	fs.StringVar(&f.kernel, "kernel", "", "resampling kernel: linear, hermite or lanczos")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for cloud populations")
	fs.Float64Var(&f.dither, "dither", 0, "TPDF dither in LSB for offline renders")
	fs.StringVar(&f.lfoShape, "lfo-shape", "", "position LFO: sine, triangle, square or random")
	fs.Float64Var(&f.lfoRate, "lfo-rate", 0, "position LFO rate in Hz")
	fs.IntVar(&f.lfoDepth, "lfo-depth", 0, "position LFO swing in samples")
	fs.StringVar(&f.lfoSync, "sync", "", "tempo synced LFO note value, e.g. 1/4 or 1/8d")
	fs.Float64Var(&f.bpm, "bpm", 120, "tempo for -sync")
	fs.StringVar(&f.root, "root", "C5", "note that plays the source untransposed")

	return f
}

// config loads the preset, if any, and applies the flags that were set.
// A preset ending in .lua is run as a script, anything else is JSON.
func (f *engineFlags) config(ctx context.Context) (granular.Config, error) {
	cfg := granular.DefaultConfig()
	if f.preset != "" {
		p, err := os.Open(f.preset)
		if err != nil {
			return cfg, fmt.Errorf("%w", err)
		}
		defer p.Close()

		if strings.EqualFold(filepath.Ext(f.preset), ".lua") {
			cfg, err = granular.LoadScript(ctx, p, filepath.Base(f.preset))
		} else {
			cfg, err = granular.LoadConfig(p)
		}
		if err != nil {
			return cfg, fmt.Errorf("preset %s: %w", f.preset, err)
		}
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "rate":
			cfg.SampleRate = f.rate
		case "mode":
			cfg.Mode = f.mode
		case "grains":
			cfg.Grains = f.grains
		case "pitch":
			cfg.Pitch = f.pitch
		case "spread":
			cfg.Spread = f.spread
		case "chord":
			cfg.Chord = append([]float64(nil), f.chord...)
		case "window":
			cfg.Window = f.window
		case "kernel":
			cfg.Kernel = f.kernel
		case "seed":
			cfg.Seed = f.seed
		case "dither":
			cfg.Dither = f.dither
		case "lfo-shape":
			cfg.LFO.Shape = f.lfoShape
		case "lfo-rate":
			cfg.LFO.Rate = f.lfoRate
		case "lfo-depth":
			cfg.LFO.Depth = f.lfoDepth
		case "sync":
			cfg.LFO.Sync = f.lfoSync
			cfg.LFO.BPM = f.bpm
		case "bpm":
			cfg.LFO.BPM = f.bpm
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (f *engineFlags) rootNote() (uint8, error) {
	n, err := note.Parse(f.root)
	if err != nil {
		return 0, fmt.Errorf("%w: -root: %w", errUsage, err)
	}
	return n, nil
}

// engine loads -in and builds an engine over it.
func (f *engineFlags) engine(ctx context.Context) (*granular.Engine, error) {
	if f.in == "" {
		return nil, fmt.Errorf("%w: -in is required", errUsage)
	}

	cfg, err := f.config(ctx)
	if err != nil {
		return nil, err
	}

	chans, err := loadSource(f.in, cfg.SampleRate, f.stereo)
	if err != nil {
		return nil, err
	}

	return granular.NewEngine(cfg, chans...)
}

func loadSource(path string, rate int, stereo bool) ([]*audio.Buffer, error) {
	return granular.LoadFile(granular.NewRegistry(), path, rate, stereo)
}
