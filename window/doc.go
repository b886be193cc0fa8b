// SPDX-License-Identifier: EPL-2.0

// Package window provides the per-grain attenuation tables that fade
// grain edges to silence and keep hard cuts from clicking.
package window
