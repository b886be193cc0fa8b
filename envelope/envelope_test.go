// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"errors"
	"math"
	"testing"
)

func testConfig() Config {
	return Config{
		SampleRate:   8000,
		Attack:       0.5,
		AttackCurve:  3,
		Decay:        0.25,
		DecayCurve:   -3,
		Sustain:      0.6,
		Release:      0.5,
		ReleaseCurve: -5,
	}
}

func mustNew(t testing.TB, cfg Config) *Envelope {
	t.Helper()

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero sample rate", mutate: func(c *Config) { c.SampleRate = 0 }},
		{name: "sample rate too high", mutate: func(c *Config) { c.SampleRate = MaxSampleRate * 2 }},
		{name: "negative attack", mutate: func(c *Config) { c.Attack = -1 }},
		{name: "nan decay", mutate: func(c *Config) { c.Decay = math.NaN() }},
		{name: "huge release", mutate: func(c *Config) { c.Release = MaxStageSeconds + 1 }},
		{name: "sustain above one", mutate: func(c *Config) { c.Sustain = 1.01 }},
		{name: "negative sustain", mutate: func(c *Config) { c.Sustain = -0.1 }},
		{name: "infinite curve", mutate: func(c *Config) { c.ReleaseCurve = math.Inf(-1) }},
		{name: "steep curve", mutate: func(c *Config) { c.AttackCurve = MaxCurve * 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestEnvelope_TableShapes(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	e := mustNew(t, cfg)

	attack := int(cfg.Attack * cfg.SampleRate)
	decay := int(cfg.Decay * cfg.SampleRate)
	if len(e.ad) != attack+decay {
		t.Fatalf("attack-decay table has %d entries, want %d", len(e.ad), attack+decay)
	}
	if len(e.release) != int(cfg.Release*cfg.SampleRate) {
		t.Fatalf("release table has %d entries", len(e.release))
	}

	if e.ad[0] != 0 {
		t.Errorf("attack starts at %v, want 0", e.ad[0])
	}
	for i := 1; i < attack; i++ {
		if e.ad[i] < e.ad[i-1] {
			t.Fatalf("attack not rising at %d", i)
		}
	}
	if e.ad[attack] != 1 {
		t.Errorf("decay starts at %v, want 1", e.ad[attack])
	}
	if last := e.ad[len(e.ad)-1]; math.Abs(last-cfg.Sustain) > 0.01 {
		t.Errorf("decay ends at %v, want ≈%v", last, cfg.Sustain)
	}
	if e.release[0] != cfg.Sustain {
		t.Errorf("release starts at %v, want %v", e.release[0], cfg.Sustain)
	}
}

func TestEnvelope_LinearCurve(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AttackCurve = 0
	e := mustNew(t, cfg)

	n := int(cfg.Attack * cfg.SampleRate)
	if got := e.ad[n/2]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("linear attack midpoint = %v, want 0.5", got)
	}
}

func TestEnvelope_ReleaseMonotonic(t *testing.T) {
	t.Parallel()

	for _, curve := range []float64{-MaxCurve, -5, -0.5, 0, 0.5, 5, MaxCurve} {
		cfg := testConfig()
		cfg.ReleaseCurve = curve
		e := mustNew(t, cfg)

		for i := 1; i < len(e.release); i++ {
			if e.release[i] > e.release[i-1] {
				t.Fatalf("curve %v: release rises at %d (%v > %v)", curve, i, e.release[i], e.release[i-1])
			}
		}
		if last := e.release[len(e.release)-1]; last < 0 || last > 0.05 {
			t.Errorf("curve %v: release ends at %v, want ≈0", curve, last)
		}
	}
}

func TestEnvelope_FullCycle(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	e := mustNew(t, cfg)
	adLen := len(e.ad)
	relLen := len(e.release)

	if e.Stage() != Idle || e.Next() != 0 {
		t.Fatal("untriggered envelope should be idle and silent")
	}

	e.Trigger(true)
	if e.Stage() != AttackDecay {
		t.Errorf("Stage() = %v after gate on, want attack-decay", e.Stage())
	}
	for i := range adLen {
		if got := e.Next(); got != e.ad[i] {
			t.Fatalf("sample %d = %v, want table value %v", i, got, e.ad[i])
		}
	}

	if e.Stage() != Sustain {
		t.Errorf("Stage() = %v after attack-decay, want sustain", e.Stage())
	}
	for range 1000 {
		if got := e.Next(); got != cfg.Sustain {
			t.Fatalf("sustain sample = %v, want %v", got, cfg.Sustain)
		}
	}

	e.Trigger(false)
	if e.Stage() != Release {
		t.Errorf("Stage() = %v after gate off, want release", e.Stage())
	}
	if got := e.Next(); got != cfg.Sustain {
		t.Errorf("first release sample = %v, want %v", got, cfg.Sustain)
	}
	for range relLen - 1 {
		e.Next()
	}

	if e.Stage() != Idle {
		t.Errorf("Stage() = %v after release, want idle", e.Stage())
	}
	for range 100 {
		if got := e.Next(); got != 0 {
			t.Fatalf("post-release sample = %v, want 0", got)
		}
	}
}

func TestEnvelope_ReleaseDuringAttackIsContinuous(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	attack := int(cfg.Attack * cfg.SampleRate)

	for _, cut := range []int{1, 10, attack / 4, attack / 2, attack * 3 / 4} {
		e := mustNew(t, cfg)
		e.Trigger(true)

		var last float64
		for range cut {
			last = e.Next()
		}
		if last > cfg.Sustain {
			continue
		}

		e.Trigger(false)
		first := e.Next()
		if math.Abs(first-last) > ReentryTolerance {
			t.Errorf("cut at %d: release starts at %v, last attack value %v", cut, first, last)
		}

		prev := first
		for range 200 {
			v := e.Next()
			if v > prev {
				t.Fatalf("cut at %d: release rose from %v to %v", cut, prev, v)
			}
			prev = v
		}
	}
}

func TestEnvelope_ReleaseAboveSustainRestartsRelease(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	e := mustNew(t, cfg)
	e.Trigger(true)

	// run into the decay, where values sit above sustain
	for range int(cfg.Attack*cfg.SampleRate) + 10 {
		e.Next()
	}

	e.Trigger(false)
	if got := e.Next(); got != cfg.Sustain {
		t.Errorf("first release sample = %v, want sustain %v", got, cfg.Sustain)
	}
}

func TestEnvelope_EmptyTables(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Attack, cfg.Decay, cfg.Release = 0, 0, 0
	e := mustNew(t, cfg)

	e.Trigger(true)
	for range 4 {
		if got := e.Next(); got != cfg.Sustain {
			t.Fatalf("gated sample = %v, want sustain %v", got, cfg.Sustain)
		}
	}

	e.Trigger(false)
	for range 4 {
		if got := e.Next(); got != 0 {
			t.Fatalf("released sample = %v, want 0", got)
		}
	}
}

func TestEnvelope_ReleaseWithEmptyTableMidAttack(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Release = 0
	e := mustNew(t, cfg)

	e.Trigger(true)
	e.Next()
	e.Trigger(false)

	if got := e.Next(); got != 0 {
		t.Errorf("Next() = %v, want 0 with an empty release table", got)
	}
}

func TestEnvelope_GateOffWhileIdleIsIgnored(t *testing.T) {
	t.Parallel()

	e := mustNew(t, testConfig())
	e.Trigger(false)

	if e.Stage() != Idle {
		t.Errorf("Stage() = %v, want idle", e.Stage())
	}
	if got := e.Next(); got != 0 {
		t.Errorf("Next() = %v, want 0", got)
	}
}

func TestEnvelope_SetConfig(t *testing.T) {
	t.Parallel()

	e := mustNew(t, testConfig())

	bad := testConfig()
	bad.Sustain = 2
	if err := e.SetConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("SetConfig() error = %v, want ErrInvalidConfig", err)
	}
	if e.Config().Sustain != testConfig().Sustain {
		t.Error("rejected config replaced the previous one")
	}

	longer := testConfig()
	longer.Release = 1
	if err := e.SetConfig(longer); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if e.Stage() != Idle || e.Next() != 0 {
		t.Error("rebuilding an idle envelope made it audible")
	}
}

func TestEnvelope_NextZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	e := mustNew(t, testConfig())
	e.Trigger(true)

	allocs := testing.AllocsPerRun(1000, func() {
		e.Next()
	})
	if allocs > 0 {
		t.Errorf("Next() allocated %v times, want 0", allocs)
	}
}

func BenchmarkEnvelope_Next(b *testing.B) {
	e := mustNew(b, DefaultConfig())
	e.Trigger(true)

	b.ReportAllocs()

	for i := range b.N {
		if i%100000 == 0 {
			e.Trigger(i%200000 == 0)
		}
		e.Next()
	}
}
