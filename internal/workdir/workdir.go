// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrResolve is returned when the target directory cannot be resolved.
	ErrResolve = errors.New("failed to resolve directory")
	// ErrNotDirectory is returned when the resolved target is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrCallerUnavailable is returned when the calling source file cannot be determined.
	ErrCallerUnavailable = errors.New("caller location unavailable")
	// ErrGetwd is returned when the current working directory cannot be read.
	ErrGetwd = errors.New("failed to get current working directory")
	// ErrChdir is returned when the working directory cannot be changed to the target.
	ErrChdir = errors.New("failed to change working directory")
	// ErrRestore is returned when the previous working directory cannot be restored.
	ErrRestore = errors.New("failed to restore working directory")
)

// FsFactory returns the filesystem used to check that a target is a directory.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

var (
	getwd        = os.Getwd
	chdir        = os.Chdir
	absPath      = filepath.Abs
	evalSymlinks = filepath.EvalSymlinks
)

// Func is the body of a scope. dir is the directory that was entered.
type Func func(ctx context.Context, dir string) error

// ScriptDir returns the absolute, symlink-free directory that contains script.
// Symlinks are followed on the script itself, so a link to a script resolves
// to the directory of the file it points at.
func ScriptDir(script string) (string, error) {
	if script == "" {
		return "", errors.Join(ErrResolve, errors.New("empty script path"))
	}

	resolved, err := realPath(script)
	if err != nil {
		return "", err
	}

	return Dir(filepath.Dir(resolved))
}

// Dir returns the absolute, symlink-free form of dir and checks it is a directory.
func Dir(dir string) (string, error) {
	if dir == "" {
		return "", errors.Join(ErrResolve, errors.New("empty directory path"))
	}

	resolved, err := realPath(dir)
	if err != nil {
		return "", err
	}

	ok, err := afero.IsDir(FsFactory(), resolved)
	if err != nil {
		return "", errors.Join(ErrResolve, err)
	}

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, resolved)
	}

	return resolved, nil
}

// CallerFile returns the source file of a function on the call stack.
// skip is 0 for the caller of CallerFile, 1 for its caller, and so on.
// Binaries built with -trimpath report module-relative paths which will not
// resolve on disk.
func CallerFile(skip int) (string, error) {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok || file == "" {
		return "", ErrCallerUnavailable
	}

	return file, nil
}

// RunScript runs fn with the working directory set to the directory containing script.
func RunScript(ctx context.Context, script string, fn Func) error {
	dir, err := ScriptDir(script)
	if err != nil {
		return err
	}

	return run(ctx, dir, fn)
}

// RunDir runs fn with the working directory set to dir.
func RunDir(ctx context.Context, dir string, fn Func) error {
	target, err := Dir(dir)
	if err != nil {
		return err
	}

	return run(ctx, target, fn)
}

// RunHere runs fn with the working directory set to the directory of the Go
// source file that called RunHere.
func RunHere(ctx context.Context, fn Func) error {
	file, err := CallerFile(1)
	if err != nil {
		return err
	}

	return RunScript(ctx, file, fn)
}

func run(ctx context.Context, dir string, fn Func) (err error) {
	s, err := Enter(ctx, dir)
	if err != nil {
		return err
	}

	returned := false

	defer func() {
		rerr := s.Exit(ctx)
		if rerr == nil {
			return
		}

		switch {
		case !returned:
			ctxlog.Error(ctx, "failed to restore working directory while unwinding", "previous", s.Previous, "error", rerr)
		case err != nil:
			ctxlog.Error(ctx, "failed to restore working directory after callback error", "previous", s.Previous, "error", rerr, "callbackError", err)
		default:
			err = rerr
		}
	}()

	if fn != nil {
		err = fn(ctx, dir)
	}

	returned = true

	return err
}

func realPath(p string) (string, error) {
	a, err := absPath(p)
	if err != nil {
		return "", errors.Join(ErrResolve, err)
	}

	r, err := evalSymlinks(a)
	if err != nil {
		return "", errors.Join(ErrResolve, err)
	}

	return r, nil
}
