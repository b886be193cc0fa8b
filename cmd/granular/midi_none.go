// SPDX-License-Identifier: EPL-2.0

//go:build !midi && !headless

package main

import (
	"context"
	"errors"
)

var errNoMIDI = errors.New("MIDI input needs a build with -tags midi")

func listenMIDI(context.Context, uint8, chan<- control) error {
	return errNoMIDI
}
