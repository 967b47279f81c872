// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/matt-FFFFFF/scriptdir/cmd/foreach"
	"github.com/matt-FFFFFF/scriptdir/cmd/resolve"
	"github.com/matt-FFFFFF/scriptdir/cmd/run"
	"github.com/matt-FFFFFF/scriptdir/internal/config"
	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	debugFlag     = "debug"
	logFormatFlag = "log-format"
)

// RootCmd is the root command for the CLI.
var RootCmd = New()

// New returns a fresh root command with all subcommands.
func New() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			foreach.NewForeachCmd(),
			resolve.NewResolveCmd(),
			run.NewRunCmd(),
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    debugFlag,
				Usage:   "Enable debug logging and print failures from each directory as they happen",
				Sources: cli.EnvVars("SCRIPTDIR_DEBUG"),
			},
			&cli.StringFlag{
				Name:  logFormatFlag,
				Usage: "Log format, one of: pretty, json",
				Value: ctxlog.FormatPretty,
				Validator: func(s string) error {
					if !slices.Contains([]string{ctxlog.FormatPretty, ctxlog.FormatJSON}, s) {
						return fmt.Errorf("invalid log format %q", s)
					}

					return nil
				},
			},
		},
		Before:    before,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "scriptdir",
		Description: `scriptdir runs commands from the directory that contains a script,
restoring the original working directory afterwards, whether the command
succeeds, fails or is interrupted.`,
		Usage:     "scriptdir run --script ./deploy/apply.sh -- ./apply.sh",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}

// before turns the parsed flags into the Config carried by the context.
// Debug set by config.FromArgs before parsing stays set.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg := config.FromContext(ctx)
	cfg.Debug = cfg.Debug || cmd.Bool(debugFlag)
	cfg.LogFormat = cmd.String(logFormatFlag)

	ctxlog.SetDebug(cfg.Debug)

	ctx = ctxlog.New(ctx, ctxlog.ForFormat(cfg.LogFormat))
	ctxlog.Debug(ctx, "configuration", "debug", cfg.Debug, "logFormat", cfg.LogFormat)

	return config.New(ctx, cfg), nil
}
