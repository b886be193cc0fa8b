// SPDX-License-Identifier: EPL-2.0

package mixdown

import "fmt"

// Interleave packs equal-length channels into frames: L0 R0 L1 R1 ...
func Interleave(channels ...[]int16) ([]int16, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}

	n := len(channels[0])
	for i, ch := range channels[1:] {
		if len(ch) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrLengthMismatch, i+1, len(ch), n)
		}
	}

	out := make([]int16, n*len(channels))
	for c, ch := range channels {
		for i, v := range ch {
			out[i*len(channels)+c] = v
		}
	}

	return out, nil
}
