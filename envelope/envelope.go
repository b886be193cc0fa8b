// SPDX-License-Identifier: EPL-2.0

package envelope

// ReentryTolerance is how close a release re-entry point must be to the
// last emitted value.
const ReentryTolerance = 0.01

// Stage is the envelope state the next sample will come from.
type Stage uint8

const (
	Idle Stage = iota
	AttackDecay
	Sustain
	Release
)

func (s Stage) String() string {
	switch s {
	case AttackDecay:
		return "attack-decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	}
	return "idle"
}

// Envelope is a gate-driven ADSR envelope over precomputed tables.
// It is not safe for concurrent use.
type Envelope struct {
	cfg Config

	ad      []float64
	release []float64

	cursor int
	last   float64
	gate   bool
	adDone bool
}

// New validates cfg and builds the stage tables.
func New(cfg Config) (*Envelope, error) {
	// an untriggered envelope stays silent
	e := &Envelope{adDone: true}
	if err := e.SetConfig(cfg); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Envelope) Config() Config { return e.cfg }
func (e *Envelope) Gate() bool     { return e.gate }

// SetConfig validates cfg and rebuilds the tables. On error the
// envelope keeps its previous config.
func (e *Envelope) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	e.Setup()
	return nil
}

// Setup rebuilds the attack-decay and release tables from the config.
// Existing storage is reused when large enough.
func (e *Envelope) Setup() {
	idle := e.Stage() == Idle
	c := e.cfg
	attack := int(c.Attack * c.SampleRate)
	decay := int(c.Decay * c.SampleRate)
	release := int(c.Release * c.SampleRate)

	if cap(e.ad) < attack+decay {
		e.ad = make([]float64, 0, attack+decay)
	}
	a := fill(e.ad[:0], attack, func(x float64) float64 {
		return shape(c.AttackCurve, x)
	})
	d := fill(e.ad[attack:attack], decay, func(x float64) float64 {
		return 1 + shape(-c.DecayCurve, x)*(c.Sustain-1)
	})
	e.ad = e.ad[:len(a)+len(d)]

	e.release = fill(e.release, release, func(x float64) float64 {
		return c.Sustain - shape(-c.ReleaseCurve, x)*c.Sustain
	})

	if idle {
		e.cursor = len(e.release)
	}
}

// Trigger opens or closes the gate and rewinds the stage cursor.
// Opening always restarts the attack; closing an already closed gate
// does nothing.
func (e *Envelope) Trigger(on bool) {
	if !on && !e.gate {
		return
	}
	e.cursor = 0
	if on {
		e.adDone = false
	}
	e.gate = on
}

// Stage reports which stage the next call to Next reads from.
func (e *Envelope) Stage() Stage {
	switch {
	case e.gate && !e.adDone && e.cursor < len(e.ad):
		return AttackDecay
	case e.gate:
		return Sustain
	case !e.adDone || e.cursor < len(e.release):
		return Release
	}
	return Idle
}

// Next returns the current gain in [0, 1] and advances the cursor.
func (e *Envelope) Next() float64 {
	var v float64

	if e.gate {
		if e.adDone || e.cursor >= len(e.ad) {
			e.adDone = true
			v = e.cfg.Sustain
		} else {
			v = e.ad[e.cursor]
		}
	} else {
		if !e.adDone {
			e.cursor = e.reentry(e.last)
			e.adDone = true
		}
		if e.cursor < len(e.release) {
			v = e.release[e.cursor]
		}
	}

	e.cursor++
	e.last = v

	return v
}

// reentry finds a release index whose value lies within
// ReentryTolerance of amp. The release table falls monotonically, so a
// bisection on value works; when no entry is close enough the first
// entry below amp is used. Amplitudes above sustain restart the release
// from its top.
func (e *Envelope) reentry(amp float64) int {
	if amp > e.cfg.Sustain {
		return 0
	}

	lo, hi := 0, len(e.release)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		v := e.release[mid]

		switch {
		case v-amp <= ReentryTolerance && amp-v <= ReentryTolerance:
			return mid
		case v > amp:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	return lo
}
