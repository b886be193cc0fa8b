// SPDX-License-Identifier: EPL-2.0

// Package note converts note names such as "C5" or "F#3" to MIDI note
// numbers and parses timed note sequences for offline renders.
//
// Octave numbers run from C to B with A0 as MIDI note 21, so C5 is 72,
// the reference pitch a source plays at untransposed.
package note
