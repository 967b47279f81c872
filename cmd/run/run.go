// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
	"github.com/matt-FFFFFF/scriptdir/internal/execute"
	"github.com/matt-FFFFFF/scriptdir/internal/workdir"
	"github.com/urfave/cli/v3"
)

const (
	scriptFlag = "script"
	envFlag    = "env"
)

// ErrNoCommand is returned when nothing follows the flags.
var ErrNoCommand = errors.New("please provide a command to run after --")

// RunCmd runs a single command in the directory of a script.
var RunCmd = NewRunCmd()

// NewRunCmd returns a fresh run command, so that flag state is not shared between runs.
func NewRunCmd() *cli.Command {
	return &cli.Command{
		Name:        "run",
		Usage:       "Run a command in the directory of a script",
		Description: "Change to the directory containing SCRIPT, run COMMAND there, then change back.",
		ArgsUsage:   "-- COMMAND [ARGS...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      scriptFlag,
				Aliases:   []string{"s"},
				Usage:     "Script whose directory the command runs in",
				Required:  true,
				TakesFile: true,
			},
			&cli.StringMapFlag{
				Name:    envFlag,
				Aliases: []string{"e"},
				Usage:   "Extra environment variable for the command, as KEY=VALUE",
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

	script := cmd.String(scriptFlag)

	err := workdir.RunScript(ctx, script, func(ctx context.Context, dir string) error {
		ctxlog.Info(ctx, "running command", "dir", dir, "command", args[0])

		c := &execute.Command{
			Path:   args[0],
			Args:   args[1:],
			Env:    cmd.StringMap(envFlag),
			Stdin:  os.Stdin,
			Stdout: cmd.Root().Writer,
			Stderr: cmd.Root().ErrWriter,
		}

		return c.Run(ctx)
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to run %s for script %s: %s", args[0], script, err.Error()), execute.ExitCode(err))
	}

	return nil
}
