// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"fmt"
	"math"
)

// Cursor is a fractional read position that walks a range of length
// samples at a fixed rate and wraps at the end of the range.
type Cursor struct {
	pos    float64
	rate   float64
	length int
}

// NewCursor returns a cursor at position 0. A non-positive or
// non-finite rate falls back to 1.
func NewCursor(length int, rate float64) Cursor {
	if !validRate(rate) {
		rate = 1
	}
	return Cursor{rate: rate, length: max(length, 0)}
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

func (c *Cursor) Position() float64 { return c.pos }
func (c *Cursor) Rate() float64     { return c.rate }
func (c *Cursor) Len() int          { return c.length }

// Advance steps the position by the rate. When the position leaves
// [0, length) it is folded back into the range and Advance reports true.
// At rate 1 that happens on exactly every length-th call.
func (c *Cursor) Advance() bool {
	c.pos += c.rate

	if c.length <= 0 {
		c.pos = 0
		return true
	}

	n := float64(c.length)
	if c.pos < n {
		return false
	}

	c.pos = math.Mod(c.pos, n)
	return true
}

// SetRate changes the step size. Only positive finite rates are accepted.
func (c *Cursor) SetRate(r float64) error {
	if !validRate(r) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, r)
	}
	c.rate = r
	return nil
}

// SetLength resizes the range, folding the position into it.
func (c *Cursor) SetLength(n int) {
	c.length = max(n, 0)
	if c.length == 0 {
		c.pos = 0
		return
	}
	if c.pos >= float64(c.length) {
		c.pos = math.Mod(c.pos, float64(c.length))
	}
}

// Reset moves the position back to the start of the range.
func (c *Cursor) Reset() {
	c.pos = 0
}
