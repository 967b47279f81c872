// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package execute runs an external command in the current working directory.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"time"

	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
)

// DefaultWaitDelay is how long a cancelled command is given to exit after
// being interrupted before it is killed.
const DefaultWaitDelay = 10 * time.Second

var (
	// ErrNoCommand is returned when no command path is set.
	ErrNoCommand = errors.New("no command specified")
	// ErrStart is returned when the command could not be found or started.
	ErrStart = errors.New("could not start process")
	// ErrNonZeroExit is returned when the command exits with a non-zero code.
	ErrNonZeroExit = errors.New("process exited with non-zero code")
	// ErrCancelled is returned when the context is done before the command exits.
	ErrCancelled = errors.New("process cancelled")
)

// ExitError carries the exit code of a command that failed.
type ExitError struct {
	Code int
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code carried by err, 0 for a nil error and 1 for
// any other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}

	return 1
}

// Command is an external process to run.
type Command struct {
	Path      string            // Executable name or path, looked up in PATH if it has no separator
	Args      []string          // Arguments, not including the executable
	Env       map[string]string // Added to the inherited environment
	Stdin     io.Reader         // Defaults to no input
	Stdout    io.Writer         // Defaults to discarding output
	Stderr    io.Writer         // Defaults to discarding output
	WaitDelay time.Duration     // Defaults to DefaultWaitDelay
}

// Run starts the command in the current working directory and waits for it.
// Cancelling ctx interrupts the process, and kills it after WaitDelay.
func (c *Command) Run(ctx context.Context) error {
	if c.Path == "" {
		return ErrNoCommand
	}

	logger := ctxlog.Logger(ctx).With("command", c.Path)

	path, err := exec.LookPath(c.Path)
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.Cancel = func() error {
		logger.Info("context done, interrupting process")
		return interrupt(cmd.Process)
	}

	cmd.WaitDelay = c.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	if len(c.Env) > 0 {
		cmd.Env = os.Environ()
		for _, k := range slices.Sorted(maps.Keys(c.Env)) {
			logger.Debug("adding environment variable", "key", k)
			cmd.Env = append(cmd.Env, k+"="+c.Env[k])
		}
	}

	logger.Debug("starting process", "path", path, "args", c.Args)

	if err := cmd.Start(); err != nil {
		return errors.Join(ErrStart, err)
	}

	err = cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Debug("process ended after cancellation", "error", err)
		return errors.Join(ErrCancelled, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("process exited", "exitCode", exitErr.ExitCode())
		return errors.Join(ErrNonZeroExit, &ExitError{Code: exitErr.ExitCode()})
	}

	if err != nil {
		return err
	}

	logger.Debug("process exited", "exitCode", 0)

	return nil
}

func interrupt(p *os.Process) error {
	if runtime.GOOS == "windows" {
		return p.Kill()
	}

	return p.Signal(os.Interrupt)
}
