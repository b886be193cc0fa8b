// SPDX-License-Identifier: EPL-2.0

// Package mixdown turns one or more engine outputs into a finished
// int16 stream.
//
// Bounce renders several layers (typically grain managers at different
// pitches) concurrently and sums them in float64. Normalize and
// Quantize bring the sum back to int16 with TPDF dither, and Interleave
// packs per-channel results into frames. DistributeUniform and
// DistributeExponential spread a parameter across layers.
package mixdown
