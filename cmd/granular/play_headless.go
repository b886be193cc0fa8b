// SPDX-License-Identifier: EPL-2.0

//go:build headless

package main

import (
	"context"
	"errors"
	"io"
)

var errHeadless = errors.New("play is not available in headless builds")

func play(context.Context, []string, io.Writer) error {
	return errHeadless
}
