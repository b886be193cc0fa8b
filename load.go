// SPDX-License-Identifier: EPL-2.0

package granular

import (
	"fmt"
	"os"

	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/formats/aiff"
	"github.com/ik5/granular/formats/mp3"
	"github.com/ik5/granular/formats/vorbis"
	"github.com/ik5/granular/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder, keyed by
// file extension.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	return reg
}

// LoadFile decodes path and converts it to sampleRate. Without stereo
// the channels are folded into a single mono buffer; with it, one
// buffer per channel is returned.
func LoadFile(reg *audio.Registry, path string, sampleRate int, stereo bool) ([]*audio.Buffer, error) {
	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	if stereo {
		bufs, err := audio.LoadChannels(src, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		return bufs, nil
	}

	buf, err := audio.LoadBuffer(src, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return []*audio.Buffer{buf}, nil
}
