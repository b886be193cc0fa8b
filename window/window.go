// SPDX-License-Identifier: EPL-2.0

package window

import (
	"fmt"
	"math"
	"strings"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Kind selects the taper a Window applies.
type Kind uint8

const (
	// NoOp leaves samples untouched.
	NoOp Kind = iota
	// Hann is the raised-cosine taper cos²(π(i/n − 0.5)), 0 at both
	// edges and 1 in the middle.
	Hann
)

func (k Kind) String() string {
	switch k {
	case NoOp:
		return "none"
	case Hann:
		return "hann"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps "none" or "hann" (case insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "none", "noop", "":
		return NoOp, nil
	case "hann":
		return Hann, nil
	}
	return NoOp, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Window is a precomputed attenuation table for a grain of n samples.
// The table holds n+1 entries so interpolated lookups at i == n stay
// valid.
type Window struct {
	kind  Kind
	n     int
	table []float64
}

// New returns a window of the given kind sized for n samples.
func New(kind Kind, n int) *Window {
	w := &Window{kind: kind}
	w.SetLength(n)
	return w
}

func (w *Window) Kind() Kind { return w.kind }
func (w *Window) Len() int   { return w.n }

// SetKind switches the taper and rebuilds the table.
func (w *Window) SetKind(k Kind) {
	w.kind = k
	w.SetLength(w.n)
}

// SetLength rebuilds the table for n samples. Storage is reused, so
// only a window growing past its largest previous size allocates.
func (w *Window) SetLength(n int) {
	w.n = max(n, 0)

	if w.kind == NoOp {
		w.table = w.table[:0]
		return
	}

	size := w.n + 1
	if cap(w.table) < size {
		w.table = make([]float64, size)
	}
	w.table = w.table[:size]

	if w.n == 0 {
		w.table[0] = 0
		return
	}

	inv := 1 / float64(w.n)
	for i := range w.table {
		c := math.Cos(math.Pi * (float64(i)*inv - 0.5))
		w.table[i] = c * c
	}
}

// At returns the attenuation for grain-relative index i. NoOp always
// returns 1; a Hann window returns 0 outside [0, n].
func (w *Window) At(i int) float64 {
	if w.kind == NoOp {
		return 1
	}
	if i < 0 || i >= len(w.table) {
		return 0
	}
	return w.table[i]
}

// Apply multiplies block, which must hold exactly n samples, by the
// window in place.
func (w *Window) Apply(block []float64) error {
	if len(block) != w.n {
		return fmt.Errorf("%w: block of %d, window of %d", ErrLengthMismatch, len(block), w.n)
	}
	if w.kind == NoOp || w.n == 0 {
		return nil
	}

	vecmath.MulBlockInPlace(block, w.table[:w.n])
	return nil
}
