// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package foreach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/scriptdir/internal/announce"
	"github.com/matt-FFFFFF/scriptdir/internal/config"
	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
	"github.com/matt-FFFFFF/scriptdir/internal/execute"
	"github.com/matt-FFFFFF/scriptdir/internal/workdir"
	"github.com/urfave/cli/v3"
)

const (
	scriptFlag    = "script"
	keepGoingFlag = "keep-going"
)

// ErrNoCommand is returned when nothing follows the flags.
var ErrNoCommand = errors.New("please provide a command to run after --")

// ForeachCmd runs the same command in the directory of each script in turn.
var ForeachCmd = NewForeachCmd()

// NewForeachCmd returns a fresh foreach command.
func NewForeachCmd() *cli.Command {
	return &cli.Command{
		Name:  "foreach",
		Usage: "Run a command in the directory of each script",
		Description: `Run COMMAND once per --script, each time from that script's directory.
	The working directory is restored between scripts. By default the first failure
	stops the run; with --keep-going all scripts are visited and the failures are
	reported together.`,
		ArgsUsage: "-- COMMAND [ARGS...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:      scriptFlag,
				Aliases:   []string{"s"},
				Usage:     "Script whose directory the command runs in, may be repeated",
				Required:  true,
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:    keepGoingFlag,
				Aliases: []string{"k"},
				Usage:   "Continue with the remaining scripts after a failure",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return cli.Exit(ErrNoCommand.Error(), 1)
	}

	steps := Steps(ctx, cmd.StringSlice(scriptFlag), func(ctx context.Context, _ string) error {
		c := &execute.Command{
			Path:   args[0],
			Args:   args[1:],
			Stdin:  os.Stdin,
			Stdout: cmd.Root().Writer,
			Stderr: cmd.Root().ErrWriter,
		}

		return c.Run(ctx)
	})

	if err := Run(ctx, steps, cmd.Bool(keepGoingFlag), cmd.Root().ErrWriter); err != nil {
		return cli.Exit(err.Error(), exitCode(err))
	}

	return nil
}

// Step is one script scope in a foreach run.
type Step struct {
	Script string
	Run    func() error
}

// Steps builds one step per script that runs fn inside that script's directory.
func Steps(ctx context.Context, scripts []string, fn workdir.Func) []Step {
	steps := make([]Step, 0, len(scripts))

	for _, s := range scripts {
		steps = append(steps, Step{
			Script: s,
			Run: func() error {
				return workdir.RunScript(ctx, s, func(ctx context.Context, dir string) error {
					ctxlog.Info(ctx, "running in script directory", "script", s, "dir", dir)
					return fn(ctx, dir)
				})
			},
		})
	}

	return steps
}

// Run executes the steps in order and returns the failures as a multierror.
// In debug mode each failure is also announced on diag when it happens.
func Run(ctx context.Context, steps []Step, keepGoing bool, diag io.Writer) error {
	debug := config.FromContext(ctx).Debug

	var result *multierror.Error

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}

		run := st.Run
		if debug {
			run = announce.Func(diag, run)
		}

		if err := run(); err != nil {
			ctxlog.Warn(ctx, "script directory failed", "script", st.Script, "error", err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", st.Script, err))

			if !keepGoing {
				break
			}
		}
	}

	return result.ErrorOrNil()
}

// exitCode is the child's exit code when exactly one step failed, otherwise 1.
func exitCode(err error) int {
	var merr *multierror.Error
	if errors.As(err, &merr) && len(merr.Errors) == 1 {
		return execute.ExitCode(merr.Errors[0])
	}

	return 1
}
