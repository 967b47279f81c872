// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the scriptdir command-line application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/scriptdir"
	"github.com/matt-FFFFFF/scriptdir/cmd"
	"github.com/matt-FFFFFF/scriptdir/internal/config"
	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
	"github.com/matt-FFFFFF/scriptdir/internal/signalbroker"
)

func main() {
	// Debug is known before flag parsing so that startup is logged too.
	cfg := config.FromArgs(os.Args)
	ctxlog.SetDebug(cfg.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	ctx = config.New(ctx, cfg)

	defer cancel()

	sigCh, stop := signalbroker.New(ctx)
	defer stop()

	go signalbroker.Watch(ctx, sigCh, cancel)

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", scriptdir.Version, scriptdir.Commit)

	// Errors implementing cli.ExitCoder have already exited with their code.
	if err := cmd.RootCmd.Run(ctx, os.Args); err != nil {
		ctxlog.Error(ctx, "command failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	ctxlog.Debug(ctx, "command completed successfully")
}
