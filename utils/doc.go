// SPDX-License-Identifier: EPL-2.0

// Package utils holds the small numeric kernels shared by the audio
// pipeline and the grain engine: interpolation (linear, Catmull-Rom,
// Hermite, Lanczos) and sample-format conversion with saturation.
package utils
