// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workdir

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
)

// Scope is an entered working directory. Call Exit to restore Previous.
// Prefer RunScript, RunDir or RunHere, which always call Exit.
type Scope struct {
	Dir      string // The directory that was entered
	Previous string // The working directory before Enter
	exited   bool
}

// Enter records the current working directory and changes to dir.
// dir is used as given; use Dir or ScriptDir to resolve it first.
// Nothing is changed if an error is returned.
func Enter(ctx context.Context, dir string) (*Scope, error) {
	prev, err := getwd()
	if err != nil {
		return nil, errors.Join(ErrGetwd, err)
	}

	if err := chdir(dir); err != nil {
		return nil, errors.Join(ErrChdir, err)
	}

	ctxlog.Debug(ctx, "entered directory", "dir", dir, "previous", prev)

	return &Scope{Dir: dir, Previous: prev}, nil
}

// Exit changes the working directory back to Previous.
// Only the first call does anything.
func (s *Scope) Exit(ctx context.Context) error {
	if s == nil || s.exited {
		return nil
	}

	s.exited = true

	if err := chdir(s.Previous); err != nil {
		return errors.Join(ErrRestore, err)
	}

	ctxlog.Debug(ctx, "restored directory", "dir", s.Previous, "left", s.Dir)

	return nil
}
