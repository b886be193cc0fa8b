// SPDX-License-Identifier: EPL-2.0

// Package resample reads a sample range at an arbitrary playback rate.
//
// A Cursor tracks a fractional position inside a range and reports when
// it wraps. A Kernel turns that position into a sample: Linear is the
// default, Hermite and Lanczos trade CPU for smoother repitching.
// Ratio maps semitones to a rate; Ratio(12) == 2.
package resample
