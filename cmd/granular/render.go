// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log"
	"math"
	"os"

	"github.com/ik5/granular"
	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/formats/wav"
	"github.com/ik5/granular/internal/spectrum"
	"github.com/ik5/granular/internal/waveplot"
	"github.com/ik5/granular/mixdown"
	"github.com/ik5/granular/note"
)

func render(ctx context.Context, args []string, out io.Writer) error {
	f := newEngineFlags("render", out)
	outPath := f.fs.String("out", "", "output WAV file")
	seconds := f.fs.Float64("seconds", 5, "time the gate stays open; the release tail is added")
	analyze := f.fs.Bool("analyze", false, "log the dominant frequency of the first channel")
	plotPath := f.fs.String("plot", "", "also write a waveform overview PNG")
	notes := f.fs.String("notes", "", "note sequence such as C5:1,G5:0.5,-:0.5 instead of -seconds")
	ceiling := f.fs.Float64("normalize", 0, "scale the render so its peak sits at this level in (0, 1]; 0 keeps the level")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if *outPath == "" {
		return fmt.Errorf("%w: -out is required", errUsage)
	}
	if *seconds < 0 {
		return fmt.Errorf("%w: -seconds must not be negative", errUsage)
	}
	if !(*ceiling >= 0 && *ceiling <= 1) {
		return fmt.Errorf("%w: -normalize must be in [0, 1]", errUsage)
	}

	root, err := f.rootNote()
	if err != nil {
		return err
	}
	seq := []note.Event{{Note: root, Seconds: *seconds}}
	if *notes != "" {
		if seq, err = note.ParseSequence(*notes); err != nil {
			return fmt.Errorf("%w: -notes: %w", errUsage, err)
		}
	}

	eng, err := f.engine(ctx)
	if err != nil {
		return err
	}

	pcm, err := bounce(ctx, eng, seq, root)
	if err != nil {
		return err
	}

	if *ceiling > 0 {
		cfg := eng.Config()
		gain, err := normalize(pcm, *ceiling, cfg.Dither, cfg.Seed)
		if err != nil {
			return err
		}
		log.Printf("normalized by %+.1f dB", 20*math.Log10(gain))
	}

	if *analyze {
		if err := logPeak(pcm, eng.Channels(), eng.SampleRate()); err != nil {
			log.Printf("analysis skipped: %v", err)
		}
	}

	if *plotPath != "" {
		cfg := eng.Config()
		label := fmt.Sprintf("%s, %d grains, %d Hz", cfg.Mode, cfg.Grains, cfg.SampleRate)
		if err := writePlot(*plotPath, pcm, eng.Channels(), label); err != nil {
			return err
		}
	}

	file, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := wav.Encode(file, eng.SampleRate(), eng.Channels(), pcm); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	log.Printf("wrote %s: %d frames, %d channels, %d layers per channel",
		*outPath, len(pcm)/eng.Channels(), eng.Channels(), eng.Layers())
	return nil
}

// bounce plays seq legato, closing the gate on rests, then renders the
// release tail.
func bounce(ctx context.Context, eng *granular.Engine, seq []note.Event, root uint8) ([]int16, error) {
	var (
		pcm  []int16
		open bool
	)
	for _, ev := range seq {
		if ev.Rest {
			eng.Trigger(false)
			open = false
		} else {
			if err := eng.Transpose(note.Semitones(ev.Note, root)); err != nil {
				return nil, err
			}
			if !open {
				eng.Trigger(true)
				open = true
			}
		}

		block, err := eng.Render(ctx, int(ev.Seconds*float64(eng.SampleRate())))
		if err != nil {
			return nil, err
		}
		pcm = append(pcm, block...)
	}

	eng.Trigger(false)
	tail, err := eng.Render(ctx, eng.Tail())
	if err != nil {
		return nil, err
	}

	return append(pcm, tail...), nil
}

// normalize rescales pcm in place so its peak sits at ceiling of full
// scale and requantizes it with dither LSB of TPDF dither.
func normalize(pcm []int16, ceiling, dither float64, seed int64) (float64, error) {
	buf := make([]float64, len(pcm))
	mixdown.ToFloat(buf, pcm)

	gain, err := mixdown.Normalize(buf, ceiling*math.MaxInt16)
	if err != nil {
		return 0, err
	}

	q, err := mixdown.NewQuantizer(dither, seed)
	if err != nil {
		return 0, err
	}
	if err := q.Quantize(pcm, buf); err != nil {
		return 0, err
	}
	return gain, nil
}

func logPeak(pcm []int16, channels, rate int) error {
	chans, err := audio.Deinterleave(pcm, channels)
	if err != nil {
		return err
	}

	hz, err := spectrum.Peak(chans[0], rate)
	if err != nil {
		return err
	}
	log.Printf("dominant frequency: %.1f Hz", hz)
	return nil
}

const (
	plotWidth  = 1200
	plotHeight = 160
)

func writePlot(path string, pcm []int16, channels int, label string) error {
	chans, err := audio.Deinterleave(pcm, channels)
	if err != nil {
		return err
	}

	img, err := waveplot.Draw(chans, plotWidth, plotHeight*channels, label)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}
