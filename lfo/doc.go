// SPDX-License-Identifier: EPL-2.0

// Package lfo provides low-frequency control sources for modulating
// grain parameters.
//
// An Oscillator produces a periodic Sine, Triangle or Square signal in
// [0, 1], either free running in Hz or locked to a tempo through a
// Timing. SampleAndHold produces stepped random values with optional
// slew between steps. Both are single-goroutine and allocation free
// once built.
package lfo
