// SPDX-License-Identifier: EPL-2.0

package note

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want uint8
	}{
		{"A0", 21},
		{"C5", C5},
		{"c5", C5},
		{"F#7", 102},
		{"Gb7", 102},
		{"E#4", 65},
		{"F4", 65},
		{"B#4", 72},
		{"Cb5", 71},
		{"B5", 83},
		{"C0", 12},
		{" 64 ", 64},
		{"0", 0},
	}

	for _, tt := range tests {
		got, err := Parse(tt.name)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "C", "H3", "C9", "dogs", "C#b4", "Z#1", "128", "-1", "C#"} {
		if _, err := Parse(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Parse(%q) error = %v, want %v", name, err, ErrInvalidName)
		}
	}
}

func TestSemitones(t *testing.T) {
	t.Parallel()

	if got := Semitones(60, C5); got != -12 {
		t.Errorf("Semitones(60, C5) = %v, want -12", got)
	}
	if got := Semitones(79, C5); got != 7 {
		t.Errorf("Semitones(79, C5) = %v, want 7", got)
	}
}

func TestParseSequence(t *testing.T) {
	t.Parallel()

	got, err := ParseSequence("C5:1, E5:0.5,-:0.25,67:2")
	if err != nil {
		t.Fatalf("ParseSequence() error = %v", err)
	}

	want := []Event{
		{Note: 72, Seconds: 1},
		{Note: 76, Seconds: 0.5},
		{Rest: true, Seconds: 0.25},
		{Note: 67, Seconds: 2},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ParseSequence() = %+v, want %+v", got, want)
	}
}

func TestParseSequence_Invalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "C5", "C5:0", "C5:-1", "C5:x", "C5:NaN", "C5:+Inf", "H5:1", "C5:1,,E5:1"} {
		if _, err := ParseSequence(s); !errors.Is(err, ErrInvalidSequence) {
			t.Errorf("ParseSequence(%q) error = %v, want %v", s, err, ErrInvalidSequence)
		}
	}
}

func ExampleParseSequence() {
	seq, _ := ParseSequence("C5:1,G5:0.5,-:0.5")
	for _, ev := range seq {
		if ev.Rest {
			fmt.Printf("rest %.1fs\n", ev.Seconds)
			continue
		}
		fmt.Printf("%+.0f semitones %.1fs\n", Semitones(ev.Note, C5), ev.Seconds)
	}
	// Output:
	// +0 semitones 1.0s
	// +7 semitones 0.5s
	// rest 0.5s
}
