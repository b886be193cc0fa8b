// SPDX-License-Identifier: EPL-2.0

package mixdown

import (
	"context"
	"errors"
	"math"
	"testing"
)

type constant int16

func (c constant) Render(dst []int16) {
	for i := range dst {
		dst[i] = int16(c)
	}
}

// counter renders 0, 1, 2, ... across calls.
type counter struct{ next int16 }

func (c *counter) Render(dst []int16) {
	for i := range dst {
		dst[i] = c.next
		c.next++
	}
}

func TestBounce_Average(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		layers []Layer
		want   float64
	}{
		{
			name:   "single layer",
			layers: []Layer{{Source: constant(100), Gain: 1}},
			want:   100,
		},
		{
			name:   "two layers averaged",
			layers: []Layer{{Source: constant(100), Gain: 1}, {Source: constant(300), Gain: 1}},
			want:   200,
		},
		{
			name:   "gain weighted",
			layers: []Layer{{Source: constant(100), Gain: 2}, {Source: constant(300), Gain: 0}},
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Bounce(context.Background(), tt.layers, chunk*2+17)
			if err != nil {
				t.Fatalf("Bounce() error = %v", err)
			}
			if len(got) != chunk*2+17 {
				t.Fatalf("len = %d, want %d", len(got), chunk*2+17)
			}
			for i, v := range got {
				if math.Abs(v-tt.want) > 1e-9 {
					t.Fatalf("sample %d = %v, want %v", i, v, tt.want)
				}
			}
		})
	}
}

func TestBounce_ContinuousAcrossChunks(t *testing.T) {
	t.Parallel()

	got, err := Bounce(context.Background(), []Layer{{Source: &counter{}, Gain: 1}}, chunk+10)
	if err != nil {
		t.Fatalf("Bounce() error = %v", err)
	}
	for i, v := range got {
		if v != float64(i) {
			t.Fatalf("sample %d = %v, want %d", i, v, i)
		}
	}
}

func TestBounce_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		layers  []Layer
		wantErr error
	}{
		{name: "no layers", wantErr: ErrNoLayers},
		{name: "nil source", layers: []Layer{{Gain: 1}}, wantErr: ErrNilSource},
		{name: "negative gain", layers: []Layer{{Source: constant(1), Gain: -1}}, wantErr: ErrInvalidGain},
		{name: "NaN gain", layers: []Layer{{Source: constant(1), Gain: math.NaN()}}, wantErr: ErrInvalidGain},
	}

	for _, tt := range tests {
		if _, err := Bounce(context.Background(), tt.layers, 10); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestBounce_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Bounce(ctx, []Layer{{Source: constant(1), Gain: 1}}, chunk*4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	buf := []float64{0, -500, 250, 1000}
	gain, err := Normalize(buf, 32000)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if gain != 32 {
		t.Errorf("gain = %v, want 32", gain)
	}
	if Peak(buf) != 32000 || buf[1] != -16000 {
		t.Errorf("normalized = %v", buf)
	}

	silent := make([]float64, 8)
	if gain, err := Normalize(silent, 1); err != nil || gain != 1 {
		t.Errorf("Normalize(silence) = (%v, %v), want (1, nil)", gain, err)
	}

	if _, err := Normalize(buf, -1); !errors.Is(err, ErrInvalidGain) {
		t.Errorf("Normalize(-1) error = %v, want ErrInvalidGain", err)
	}
}

func TestQuantizer_Rounds(t *testing.T) {
	t.Parallel()

	q, err := NewQuantizer(0, 1)
	if err != nil {
		t.Fatalf("NewQuantizer() error = %v", err)
	}

	src := []float64{0.4, 0.6, -0.6, 40000, -40000, 1.5, math.NaN()}
	want := []int16{0, 1, -1, 32767, -32768, 2, 0}
	got := make([]int16, len(src))
	if err := q.Quantize(got, src); err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Quantize(%v) = %d, want %d", src[i], got[i], want[i])
		}
	}

	if err := q.Quantize(got[:2], src); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short dst error = %v, want ErrLengthMismatch", err)
	}
}

func TestQuantizer_Dither(t *testing.T) {
	t.Parallel()

	quantize := func(seed int64) []int16 {
		q, _ := NewQuantizer(1, seed)
		src := make([]float64, 4096)
		for i := range src {
			src[i] = 100.25
		}
		out := make([]int16, len(src))
		_ = q.Quantize(out, src)
		return out
	}

	a, b := quantize(5), quantize(5)
	varied := false
	sum := 0.0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d", i)
		}
		if a[i] < 99 || a[i] > 102 {
			t.Fatalf("sample %d = %d strayed more than a step from 100.25", i, a[i])
		}
		if a[i] != a[0] {
			varied = true
		}
		sum += float64(a[i])
	}
	if !varied {
		t.Error("dither produced a constant output")
	}
	if mean := sum / float64(len(a)); math.Abs(mean-100.25) > 0.1 {
		t.Errorf("dithered mean = %v, want about 100.25", mean)
	}

	if _, err := NewQuantizer(-1, 0); !errors.Is(err, ErrInvalidGain) {
		t.Errorf("NewQuantizer(-1) error = %v, want ErrInvalidGain", err)
	}
}

func TestInterleave(t *testing.T) {
	t.Parallel()

	got, err := Interleave([]int16{1, 2, 3}, []int16{-1, -2, -3})
	if err != nil {
		t.Fatalf("Interleave() error = %v", err)
	}
	want := []int16{1, -1, 2, -2, 3, -3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Interleave() = %v, want %v", got, want)
		}
	}

	mono, err := Interleave([]int16{4, 5})
	if err != nil || len(mono) != 2 || mono[1] != 5 {
		t.Errorf("Interleave(mono) = (%v, %v)", mono, err)
	}

	if _, err := Interleave([]int16{1}, []int16{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("mismatch error = %v, want ErrLengthMismatch", err)
	}
	if _, err := Interleave(); !errors.Is(err, ErrNoChannels) {
		t.Errorf("empty error = %v, want ErrNoChannels", err)
	}
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	uniform := DistributeUniform(4, 0, 1)
	for i, want := range []float64{0, 0.25, 0.5, 0.75} {
		if uniform[i] != want {
			t.Errorf("DistributeUniform[%d] = %v, want %v", i, uniform[i], want)
		}
	}

	exp := DistributeExponential(2, 0.15)
	if exp[0] != 0.15 || math.Abs(exp[1]-0.15*math.Sqrt2) > 1e-12 {
		t.Errorf("DistributeExponential = %v", exp)
	}

	if len(DistributeUniform(0, 0, 1)) != 0 || len(DistributeExponential(-3, 1)) != 0 {
		t.Error("non-positive counts should give empty slices")
	}
}

func BenchmarkBounce(b *testing.B) {
	layers := []Layer{
		{Source: constant(100), Gain: 1},
		{Source: constant(200), Gain: 1},
		{Source: constant(300), Gain: 1},
	}

	b.ReportAllocs()

	for range b.N {
		if _, err := Bounce(context.Background(), layers, 44100); err != nil {
			b.Fatal(err)
		}
	}
}
