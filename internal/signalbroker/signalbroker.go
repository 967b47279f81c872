// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker listens for OS signals that should end the process.
// By default it listens for SIGINT, SIGTERM and SIGQUIT.
//
// The first signal of a type is only logged, since a child started inside a
// directory scope receives it from the terminal as well and gets the chance to
// exit cleanly. A second signal of the same type cancels the context, which
// interrupts the child and unwinds the scope so the working directory is restored.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// New starts relaying the given signals, or the termination signals if none
// are given. Call the returned stop function to stop relaying.
func New(ctx context.Context, sigs ...os.Signal) (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch, func() {
		signal.Stop(ch)
	}
}
