// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/granular/audio"
)

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 7)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func toInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		out[i] = int16(v * 32768)
	}
	return out
}

func equal(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWritePCM16_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		samples  []int16
	}{
		{name: "mono", rate: 8000, channels: 1, samples: []int16{0, 100, -100, 32767, -32768}},
		{name: "stereo", rate: 44100, channels: 2, samples: []int16{1, -1, 2, -2, 3, -3}},
		{name: "empty", rate: 22050, channels: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := WritePCM16(&buf, tt.rate, tt.channels, tt.samples); err != nil {
				t.Fatalf("WritePCM16() error = %v", err)
			}
			if buf.Len() != headerSize+2*len(tt.samples) {
				t.Errorf("wrote %d bytes, want %d", buf.Len(), headerSize+2*len(tt.samples))
			}

			// a plain io.Reader exercises the buffering path
			src, err := Decoder{}.Decode(io.MultiReader(&buf))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.SampleRate() != tt.rate || src.Channels() != tt.channels {
				t.Errorf("format = %d Hz %d ch, want %d Hz %d ch",
					src.SampleRate(), src.Channels(), tt.rate, tt.channels)
			}

			if got := toInt16(readAll(t, src)); !equal(got, tt.samples) && len(tt.samples) > 0 {
				t.Errorf("decoded %v, want %v", got, tt.samples)
			}
		})
	}
}

func TestWritePCM16_Header(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WritePCM16(&buf, 48000, 2, make([]int16, 10)); err != nil {
		t.Fatalf("WritePCM16() error = %v", err)
	}
	h := buf.Bytes()[:headerSize]

	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(h[4:8]), 36 + 20},
		{"channels", uint32(binary.LittleEndian.Uint16(h[22:24])), 2},
		{"sample rate", binary.LittleEndian.Uint32(h[24:28]), 48000},
		{"byte rate", binary.LittleEndian.Uint32(h[28:32]), 48000 * 4},
		{"block align", uint32(binary.LittleEndian.Uint16(h[32:34])), 4},
		{"data size", binary.LittleEndian.Uint32(h[40:44]), 20},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if string(h[0:4]) != "RIFF" || string(h[8:12]) != "WAVE" || string(h[36:40]) != "data" {
		t.Errorf("bad chunk ids in %q", h)
	}
}

func TestWritePCM16_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		n        int
		wantErr  error
	}{
		{name: "zero rate", rate: 0, channels: 1, wantErr: ErrInvalidSampleRate},
		{name: "zero channels", rate: 8000, channels: 0, wantErr: ErrInvalidChannels},
		{name: "partial frame", rate: 8000, channels: 2, n: 3, wantErr: ErrPartialFrame},
	}

	for _, tt := range tests {
		err := WritePCM16(io.Discard, tt.rate, tt.channels, make([]int16, tt.n))
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
		err = Encode(nil, tt.rate, tt.channels, make([]int16, tt.n))
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: Encode error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 2*(encodeChunk+100))
	for i := range samples {
		samples[i] = int16(i*7 - 30000)
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Encode(f, 44100, 2, samples); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	src, err := Decoder{}.Decode(in)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.Channels() != 2 || src.SampleRate() != 44100 {
		t.Errorf("format = %d Hz %d ch", src.SampleRate(), src.Channels())
	}
	if got := toInt16(readAll(t, src)); !equal(got, samples) {
		t.Errorf("decoded %d samples, want %d identical samples", len(got), len(samples))
	}
}

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		in       []int
		want     []float32
	}{
		{bitDepth: 8, in: []int{128, 192, 64}, want: []float32{0, 0.5, -0.5}},
		{bitDepth: 24, in: []int{4194304, -4194304}, want: []float32{0.5, -0.5}},
		{bitDepth: 32, in: []int{1 << 30}, want: []float32{0.5}},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "depth.wav")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}

		enc := gowav.NewEncoder(f, 8000, tt.bitDepth, 1, formatPCM)
		buf := &goaudio.IntBuffer{Format: &goaudio.Format{NumChannels: 1, SampleRate: 8000}, Data: tt.in}
		if err := enc.Write(buf); err != nil {
			t.Fatalf("%d bit: Write() error = %v", tt.bitDepth, err)
		}
		if err := enc.Close(); err != nil {
			t.Fatalf("%d bit: Close() error = %v", tt.bitDepth, err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			t.Fatal(err)
		}

		src, err := Decoder{}.Decode(f)
		if err != nil {
			t.Fatalf("%d bit: Decode() error = %v", tt.bitDepth, err)
		}
		got := readAll(t, src)
		f.Close()

		if len(got) != len(tt.want) {
			t.Fatalf("%d bit: decoded %v, want %v", tt.bitDepth, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%d bit: sample %d = %v, want %v", tt.bitDepth, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	var valid bytes.Buffer
	if err := WritePCM16(&valid, 8000, 1, []int16{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	float := bytes.Clone(valid.Bytes())
	binary.LittleEndian.PutUint16(float[20:22], 3) // IEEE float

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "not riff", data: []byte("NOT A WAV FILE DATA"), wantErr: ErrNotWavFile},
		{name: "truncated", data: []byte("RIFF\x00"), wantErr: ErrNotWavFile},
		{name: "float samples", data: float, wantErr: ErrUnsupportedEncoding},
	}

	for _, tt := range tests {
		if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func BenchmarkWritePCM16(b *testing.B) {
	samples := make([]int16, 44100)

	b.ReportAllocs()

	for range b.N {
		_ = WritePCM16(io.Discard, 44100, 1, samples)
	}
}
