// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"io"
)

// readKeys delivers r one byte at a time. The channel closes when r
// fails or ctx is done; a pending Read still finishes first.
func readKeys(ctx context.Context, r io.Reader) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n == 1 {
				select {
				case keys <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return keys
}
