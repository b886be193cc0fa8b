// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"fmt"
	"math"

	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/resample"
	"github.com/ik5/granular/utils"
	"github.com/ik5/granular/window"
)

// span is a half-open sample range [lower, upper).
type span struct {
	lower, upper int
}

func (s span) len() int { return s.upper - s.lower }

// Grain plays one sub-range of a shared source buffer, optionally
// repitched, reversed and windowed.
//
// While a grain is locked, range changes are parked as a pending span
// and committed the next time playback wraps, so a playing grain is
// never cut mid-cycle.
type Grain struct {
	src *audio.Buffer

	active     span
	pending    span
	hasPending bool

	reverse bool
	looping bool
	locked  bool
	pitched bool

	index    int // read offset when pitch is off
	cursor   resample.Cursor
	kernel   resample.Kernel
	baseRate float64

	win   window.Window
	depth float64

	id    int
	next  int
	count int
}

// NewGrain creates grain id of a population of count grains, playing
// [lower, upper) of src. It starts unlocked, not looping, with pitch
// enabled at rate 1 and a full-depth Hann window.
func NewGrain(src *audio.Buffer, lower, upper, id, count int) (*Grain, error) {
	g, err := newGrain(src, span{lower, upper}, id, count)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func newGrain(src *audio.Buffer, s span, id, count int) (Grain, error) {
	if src == nil {
		return Grain{}, ErrNoSource
	}
	if count <= 0 || id < 0 || id >= count {
		return Grain{}, fmt.Errorf("%w: id %d of %d", ErrGrainIndex, id, count)
	}
	if err := checkSpan(s, src.Len()); err != nil {
		return Grain{}, err
	}

	g := Grain{
		src:      src,
		active:   s,
		pitched:  true,
		cursor:   resample.NewCursor(s.len(), 1),
		baseRate: 1,
		depth:    1,
		id:       id,
		next:     (id + 1) % count,
		count:    count,
	}
	g.win.SetKind(window.Hann)
	g.win.SetLength(s.len())

	return g, nil
}

func checkSpan(s span, srcLen int) error {
	if s.lower < 0 || s.upper > srcLen || s.lower >= s.upper {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrInvalidRange, s.lower, s.upper, srcLen)
	}
	return nil
}

func (g *Grain) Lower() int           { return g.active.lower }
func (g *Grain) Upper() int           { return g.active.upper }
func (g *Grain) Len() int             { return g.active.len() }
func (g *Grain) ID() int              { return g.id }
func (g *Grain) Next() int            { return g.next }
func (g *Grain) Looping() bool        { return g.looping }
func (g *Grain) Reverse() bool        { return g.reverse }
func (g *Grain) Locked() bool         { return g.locked }
func (g *Grain) Rate() float64        { return g.cursor.Rate() }
func (g *Grain) BaseRate() float64    { return g.baseRate }
func (g *Grain) Position() float64    { return g.cursor.Position() }
func (g *Grain) PitchEnabled() bool   { return g.pitched }
func (g *Grain) WindowDepth() float64 { return g.depth }

// Pending returns the range waiting to be committed, if any.
func (g *Grain) Pending() (lower, upper int, ok bool) {
	return g.pending.lower, g.pending.upper, g.hasPending
}

// target is the range the next commit will leave in place.
func (g *Grain) target() span {
	if g.hasPending {
		return g.pending
	}
	return g.active
}

// NextSample returns the grain's next output sample. With applyWindow
// the sample is scaled by depth·w + (1 − depth) for window value w.
func (g *Grain) NextSample(applyWindow bool) int16 {
	var v, w float64

	if g.pitched {
		p := g.cursor.Position()
		pos := float64(g.active.lower) + p
		if g.reverse {
			pos = float64(g.active.upper-1) - p
		}
		v = g.kernel.Sample(g.src, g.active.lower, g.active.upper, pos, g.cursor.Rate())

		base := math.Floor(p)
		i := int(base)
		w = utils.Lerp(g.win.At(i), g.win.At(i+1), p-base)

		if g.cursor.Advance() {
			g.commit()
		}
	} else {
		idx := g.active.lower + g.index
		if g.reverse {
			idx = g.active.upper - 1 - g.index
		}
		v = float64(g.src.At(idx))
		w = g.win.At(g.index)

		g.index++
		if g.index >= g.active.len() {
			g.index = 0
			g.commit()
		}
	}

	if applyWindow {
		v *= g.depth*w + (1 - g.depth)
	}

	return utils.SaturateInt16(v)
}

// commit applies a pending range at a playback boundary.
func (g *Grain) commit() {
	if !g.hasPending {
		return
	}
	g.active = g.pending
	g.hasPending = false
	g.resize()
}

func (g *Grain) resize() {
	n := g.active.len()
	g.win.SetLength(n)
	g.cursor.SetLength(n)
	if g.index >= n {
		g.index = 0
	}
}

// Rewind restarts playback from the beginning of the range, committing
// any pending range first.
func (g *Grain) Rewind() {
	g.index = 0
	g.cursor.Reset()
	g.commit()
}

// SetRange replaces the playback range. A locked grain parks it until
// its next wrap; an unlocked grain switches immediately.
func (g *Grain) SetRange(lower, upper int) error {
	s := span{lower, upper}
	if err := checkSpan(s, g.src.Len()); err != nil {
		return err
	}

	if g.locked {
		g.pending = s
		g.hasPending = true
		return nil
	}

	g.active = s
	g.hasPending = false
	g.resize()
	return nil
}

func (g *Grain) SetLowerIndex(lower int) error {
	return g.SetRange(lower, g.target().upper)
}

func (g *Grain) SetUpperIndex(upper int) error {
	return g.SetRange(g.target().lower, upper)
}

// SetPos moves the range to start at pos while keeping its length.
// pos is clamped so the range stays inside the source.
func (g *Grain) SetPos(pos int) {
	n := g.target().len()
	pos = min(max(pos, 0), g.src.Len()-n)

	// cannot fail: the clamped range always fits
	_ = g.SetRange(pos, pos+n)
}

// SetLooping makes the grain follow itself (true) or its successor.
func (g *Grain) SetLooping(loop bool) {
	g.looping = loop
	if loop {
		g.next = g.id
	} else {
		g.next = (g.id + 1) % g.count
	}
}

func (g *Grain) Lock()                        { g.locked = true }
func (g *Grain) Unlock()                      { g.locked = false }
func (g *Grain) SetReverse(r bool)            { g.reverse = r }
func (g *Grain) SetKernel(k resample.Kernel)  { g.kernel = k }
func (g *Grain) SetWindow(k window.Kind)      { g.win.SetKind(k) }
func (g *Grain) WindowValue(i int) float64    { return g.win.At(i) }
func (g *Grain) SetPitchEnabled(enabled bool) { g.pitched = enabled }

// SetWindowDepth blends between unwindowed (0) and fully windowed (1).
func (g *Grain) SetWindowDepth(d float64) error {
	if math.IsNaN(d) || d < 0 || d > 1 {
		return fmt.Errorf("%w: window depth %v must be in [0, 1]", ErrInvalidParam, d)
	}
	g.depth = d
	return nil
}

// SetBaseRate sets the grain's own playback rate, the one global pitch
// multiplies.
func (g *Grain) SetBaseRate(r float64) error {
	if err := g.cursor.SetRate(r); err != nil {
		return fmt.Errorf("%w", err)
	}
	g.baseRate = r
	return nil
}

// SetRate changes the effective playback rate without touching the
// base rate.
func (g *Grain) SetRate(r float64) error {
	if err := g.cursor.SetRate(r); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
