// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ik5/granular/audio"
	"github.com/ik5/granular/envelope"
	"github.com/ik5/granular/resample"
	"github.com/ik5/granular/utils"
	"github.com/ik5/granular/window"
)

// Manager owns a population of grains over one source buffer, mixes
// them and gates the result with an ADSR envelope. A Manager is driven
// by a single goroutine; NextSample neither blocks nor allocates.
type Manager struct {
	src    *audio.Buffer
	grains []Grain
	home   []int // population lower bounds, for SetPosition
	mode   Mode

	active  int
	counter int

	makeup      float64
	globalPitch float64
	env         *envelope.Envelope

	windowKind  window.Kind
	windowDepth float64
	kernel      resample.Kernel
	pitched     bool

	seed int64
	rng  *rand.Rand
}

// NewManager returns an empty manager gated by an envelope built from
// env. It outputs silence until Populate succeeds.
func NewManager(env envelope.Config) (*Manager, error) {
	e, err := envelope.New(env)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &Manager{
		mode:        Sequence(),
		makeup:      1,
		env:         e,
		windowKind:  window.Hann,
		windowDepth: 1,
		kernel:      resample.Linear,
		pitched:     true,
		seed:        1,
		rng:         rand.New(rand.NewSource(1)),
	}, nil
}

func (m *Manager) Len() int                      { return len(m.grains) }
func (m *Manager) Mode() Mode                    { return m.mode }
func (m *Manager) Active() int                   { return m.active }
func (m *Manager) Source() *audio.Buffer         { return m.src }
func (m *Manager) MakeupGain() float64           { return m.makeup }
func (m *Manager) GlobalPitch() float64          { return m.globalPitch }
func (m *Manager) EnvelopeStage() envelope.Stage { return m.env.Stage() }
func (m *Manager) Envelope() envelope.Config     { return m.env.Config() }

// Grain returns grain i for inspection or per-grain tweaks.
func (m *Manager) Grain(i int) (*Grain, error) {
	if i < 0 || i >= len(m.grains) {
		return nil, fmt.Errorf("%w: %d of %d", ErrGrainIndex, i, len(m.grains))
	}
	return &m.grains[i], nil
}

// Populate replaces the grain population with count grains laid out
// over src by mode. The envelope tables are rebuilt, playback restarts
// at the first grain and the global pitch is reapplied. On error the
// previous population is left untouched.
func (m *Manager) Populate(count int, src *audio.Buffer, mode Mode) error {
	if src == nil {
		return ErrNoSource
	}

	layouts, err := plan(count, src.Len(), mode, m.rng)
	if err != nil {
		return err
	}

	grains := make([]Grain, count)
	home := make([]int, count)
	for i, l := range layouts {
		g, err := newGrain(src, l.span, i, count)
		if err != nil {
			return err
		}

		g.SetLooping(l.looping)
		g.SetReverse(l.reverse)
		if err := g.SetBaseRate(l.rate); err != nil {
			return fmt.Errorf("%w", err)
		}
		g.SetWindow(m.windowKind)
		_ = g.SetWindowDepth(m.windowDepth)
		g.SetKernel(m.kernel)
		g.SetPitchEnabled(m.pitched)
		g.Lock()

		grains[i] = g
		home[i] = l.lower
	}
	if err := transpose(grains, m.globalPitch); err != nil {
		return err
	}

	m.src = src
	m.grains = grains
	m.home = home
	m.mode = mode
	m.active = 0
	m.counter = 0
	m.env.Setup()

	return nil
}

// NextSample produces one output sample and advances the envelope.
func (m *Manager) NextSample() int16 {
	var mixed int16

	if n := len(m.grains); n > 0 {
		if m.mode.Kind == SequenceMode {
			g := &m.grains[m.active]
			// a wrap may commit a pending range of another length
			n := g.Len()
			v := g.NextSample(true)

			m.counter++
			if m.counter >= n {
				g.Rewind()
				m.active = g.Next()
				m.counter = 0
			}

			mixed = utils.SaturateInt16(float64(v) * m.makeup)
		} else {
			var sum int32
			for i := range m.grains {
				sum += int32(m.grains[i].NextSample(true))
			}
			mixed = utils.SaturateInt16(float64(sum/int32(n)) * m.makeup)
		}
	}

	return utils.SaturateInt16(float64(mixed) * m.env.Next())
}

// Render fills dst with consecutive samples.
func (m *Manager) Render(dst []int16) {
	for i := range dst {
		dst[i] = m.NextSample()
	}
}

// TriggerGate opens or closes the envelope gate.
func (m *Manager) TriggerGate(on bool) {
	m.env.Trigger(on)
}

// SetGlobalPitch transposes every grain by semitones on top of its own
// base rate. A transposition that drives any grain's rate to zero or
// infinity is rejected and changes nothing.
func (m *Manager) SetGlobalPitch(semitones float64) error {
	if err := transpose(m.grains, semitones); err != nil {
		return err
	}
	m.globalPitch = semitones
	return nil
}

// transpose sets every grain's rate to its base rate times the ratio
// for semitones. All rates are checked before any grain changes.
func transpose(grains []Grain, semitones float64) error {
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) {
		return fmt.Errorf("%w: pitch %v", ErrInvalidParam, semitones)
	}

	ratio := resample.Ratio(semitones)
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return fmt.Errorf("%w: pitch %v out of range", ErrInvalidParam, semitones)
	}
	for i := range grains {
		if r := grains[i].BaseRate() * ratio; !(r > 0) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: pitch %v gives grain %d rate %v", ErrInvalidParam, semitones, i, r)
		}
	}

	for i := range grains {
		g := &grains[i]
		if err := g.SetRate(g.BaseRate() * ratio); err != nil {
			return err
		}
	}
	return nil
}

// SetMakeupGain sets the gain applied after mixing.
func (m *Manager) SetMakeupGain(gain float64) error {
	if math.IsNaN(gain) || math.IsInf(gain, 0) || gain < 0 {
		return fmt.Errorf("%w: makeup gain %v", ErrInvalidParam, gain)
	}
	m.makeup = gain
	return nil
}

// SetPosition moves the whole population so its anchor (the start of
// the source for Sequence, the span start for Cascade, the centre for
// Cloud) sits at pos. Grains keep their relative offsets and are
// clamped into the source; locked grains move at their next wrap.
func (m *Manager) SetPosition(pos int) {
	delta := pos - m.mode.Anchor()
	for i := range m.grains {
		m.grains[i].SetPos(m.home[i] + delta)
	}
}

func (m *Manager) SetWindow(k window.Kind) {
	m.windowKind = k
	for i := range m.grains {
		m.grains[i].SetWindow(k)
	}
}

func (m *Manager) SetWindowDepth(d float64) error {
	if math.IsNaN(d) || d < 0 || d > 1 {
		return fmt.Errorf("%w: window depth %v must be in [0, 1]", ErrInvalidParam, d)
	}
	m.windowDepth = d
	for i := range m.grains {
		_ = m.grains[i].SetWindowDepth(d)
	}
	return nil
}

func (m *Manager) SetKernel(k resample.Kernel) {
	m.kernel = k
	for i := range m.grains {
		m.grains[i].SetKernel(k)
	}
}

func (m *Manager) SetPitchEnabled(enabled bool) {
	m.pitched = enabled
	for i := range m.grains {
		m.grains[i].SetPitchEnabled(enabled)
	}
}

// SetSeed reseeds the generator Cloud populations draw from.
func (m *Manager) SetSeed(seed int64) {
	m.seed = seed
	m.rng = rand.New(rand.NewSource(seed))
}

func (m *Manager) Seed() int64 { return m.seed }

// SetEnvelope replaces the whole envelope configuration.
func (m *Manager) SetEnvelope(cfg envelope.Config) error {
	if err := m.env.SetConfig(cfg); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *Manager) updateEnvelope(fn func(*envelope.Config)) error {
	cfg := m.env.Config()
	fn(&cfg)
	return m.SetEnvelope(cfg)
}

func (m *Manager) SetAttack(seconds float64) error {
	return m.updateEnvelope(func(c *envelope.Config) { c.Attack = seconds })
}

func (m *Manager) SetDecay(seconds float64) error {
	return m.updateEnvelope(func(c *envelope.Config) { c.Decay = seconds })
}

func (m *Manager) SetSustain(level float64) error {
	return m.updateEnvelope(func(c *envelope.Config) { c.Sustain = level })
}

func (m *Manager) SetRelease(seconds float64) error {
	return m.updateEnvelope(func(c *envelope.Config) { c.Release = seconds })
}

// SetCurves sets the attack, decay and release curve shapes.
func (m *Manager) SetCurves(attack, decay, release float64) error {
	return m.updateEnvelope(func(c *envelope.Config) {
		c.AttackCurve, c.DecayCurve, c.ReleaseCurve = attack, decay, release
	})
}
