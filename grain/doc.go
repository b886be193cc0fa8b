// SPDX-License-Identifier: EPL-2.0

// Package grain implements the granular engine: grains that replay
// sub-ranges of a shared audio.Buffer, population strategies that lay
// them out, and a Manager that mixes them under an ADSR envelope.
//
// A typical host loop:
//
//	m, _ := grain.NewManager(envelope.DefaultConfig())
//	_ = m.Populate(8, buf, grain.Cloud(4096, 2, 22050))
//	m.TriggerGate(true)
//	for i := range out {
//		out[i] = m.NextSample()
//	}
//
// Sequence plays equal slices of the source in ring order, one grain at
// a time. Cascade loops grains that share an end point with staggered
// starts. Cloud loops randomised grains, some an octave off or
// reversed, around a centre; its randomness comes from a seedable
// generator (Manager.SetSeed).
//
// Range changes on a locked grain are parked and applied only when the
// grain wraps, so repositioning never clicks mid-grain. Populations lock
// every grain.
package grain
