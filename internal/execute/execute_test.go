// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package execute

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/scriptdir/internal/workdir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
}

func TestRun_Success(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	var out bytes.Buffer

	c := &Command{Path: "sh", Args: []string{"-c", "echo hello"}, Stdout: &out}
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, "hello\n", out.String())
}

func TestRun_NoCommand(t *testing.T) {
	assert.ErrorIs(t, (&Command{}).Run(context.Background()), ErrNoCommand)
}

func TestRun_NotFound(t *testing.T) {
	err := (&Command{Path: "definitely-not-a-real-command-7f3a"}).Run(context.Background())
	assert.ErrorIs(t, err, ErrStart)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRun_NonZeroExit(t *testing.T) {
	skipOnWindows(t)

	err := (&Command{Path: "sh", Args: []string{"-c", "exit 3"}}).Run(context.Background())
	require.ErrorIs(t, err, ErrNonZeroExit)

	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 3, ee.Code)
	assert.Equal(t, 3, ExitCode(err))
	assert.Equal(t, "exit code 3", ee.Error())
}

func TestRun_Env(t *testing.T) {
	skipOnWindows(t)

	var out bytes.Buffer

	c := &Command{
		Path:   "sh",
		Args:   []string{"-c", `echo "$SCRIPTDIR_TEST_VALUE"`},
		Env:    map[string]string{"SCRIPTDIR_TEST_VALUE": "from-env"},
		Stdout: &out,
	}
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, "from-env\n", out.String())
}

func TestRun_ContextCancelled(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := (&Command{Path: "sh", Args: []string{"-c", "sleep 10"}, WaitDelay: time.Second}).Run(ctx)

	require.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_InsideScriptDirectory(t *testing.T) {
	skipOnWindows(t)

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	scripts := filepath.Join(root, "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "where.sh"), []byte("#!/bin/sh\npwd\n"), 0o755))

	t.Chdir(root)

	var out bytes.Buffer

	err = workdir.RunScript(context.Background(), filepath.Join(scripts, "where.sh"), func(ctx context.Context, _ string) error {
		return (&Command{Path: "./where.sh", Stdout: &out}).Run(ctx)
	})
	require.NoError(t, err)

	assert.Equal(t, scripts, strings.TrimSpace(out.String()))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("other")))
	assert.Equal(t, 7, ExitCode(errors.Join(ErrNonZeroExit, &ExitError{Code: 7})))
}
