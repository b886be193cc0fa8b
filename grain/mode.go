// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"fmt"
	"strings"
)

// ModeKind names a population strategy.
type ModeKind uint8

const (
	// SequenceMode plays contiguous grains one after another.
	SequenceMode ModeKind = iota
	// CascadeMode loops grains that share an end and stagger their starts.
	CascadeMode
	// CloudMode loops randomised grains around a centre position.
	CloudMode
)

func (k ModeKind) String() string {
	switch k {
	case SequenceMode:
		return "sequence"
	case CascadeMode:
		return "cascade"
	case CloudMode:
		return "cloud"
	}
	return fmt.Sprintf("ModeKind(%d)", uint8(k))
}

// ParseModeKind maps a mode name (case insensitive) to its ModeKind.
func ParseModeKind(s string) (ModeKind, error) {
	switch strings.ToLower(s) {
	case "sequence", "seq":
		return SequenceMode, nil
	case "cascade":
		return CascadeMode, nil
	case "cloud":
		return CloudMode, nil
	}
	return SequenceMode, fmt.Errorf("%w: unknown mode %q", ErrInvalidParam, s)
}

// Mode is a population strategy with its parameters. Build one with
// Sequence, Cascade or Cloud; only the fields of its Kind are used.
type Mode struct {
	Kind ModeKind

	// Cascade span
	Lower, Upper int

	// Cloud shape
	Length    int
	Variation float64
	Start     int
}

func Sequence() Mode { return Mode{Kind: SequenceMode} }

// Cascade spreads grain starts across [lower, upper); every grain ends
// at upper.
func Cascade(lower, upper int) Mode {
	return Mode{Kind: CascadeMode, Lower: lower, Upper: upper}
}

// Cloud scatters grains of roughly length samples around start.
// variation scales how far each grain may stretch on both sides.
func Cloud(length int, variation float64, start int) Mode {
	return Mode{Kind: CloudMode, Length: length, Variation: variation, Start: start}
}

func (m Mode) String() string {
	switch m.Kind {
	case CascadeMode:
		return fmt.Sprintf("cascade[%d, %d)", m.Lower, m.Upper)
	case CloudMode:
		return fmt.Sprintf("cloud(length=%d, variation=%g, start=%d)", m.Length, m.Variation, m.Start)
	}
	return m.Kind.String()
}

// Anchor is the source position the population is laid out around.
func (m Mode) Anchor() int {
	switch m.Kind {
	case CascadeMode:
		return m.Lower
	case CloudMode:
		return m.Start
	}
	return 0
}
