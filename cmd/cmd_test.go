// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/scriptdir/internal/config"
	"github.com/matt-FFFFFF/scriptdir/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func probeRoot(got *config.Config) *cli.Command {
	root := New()
	root.Writer = &bytes.Buffer{}
	root.Commands = append(root.Commands, &cli.Command{
		Name: "probe",
		Action: func(ctx context.Context, _ *cli.Command) error {
			*got = config.FromContext(ctx)
			return nil
		},
	})

	return root
}

func TestBefore_BuildsConfig(t *testing.T) {
	originalLevel := ctxlog.LevelVar.Level()
	defer ctxlog.LevelVar.Set(originalLevel)

	tests := []struct {
		name string
		ctx  context.Context
		args []string
		want config.Config
	}{
		{
			name: "defaults",
			ctx:  context.Background(),
			args: []string{"scriptdir", "probe"},
			want: config.Config{LogFormat: ctxlog.FormatPretty},
		},
		{
			name: "debug flag and json logs",
			ctx:  context.Background(),
			args: []string{"scriptdir", "--debug", "--log-format", "json", "probe"},
			want: config.Config{Debug: true, LogFormat: ctxlog.FormatJSON},
		},
		{
			name: "debug from args survives",
			ctx:  config.New(context.Background(), config.FromArgs([]string{"scriptdir", "--debug"})),
			args: []string{"scriptdir", "probe"},
			want: config.Config{Debug: true, LogFormat: ctxlog.FormatPretty},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got config.Config

			require.NoError(t, probeRoot(&got).Run(tt.ctx, tt.args))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBefore_DebugEnvVar(t *testing.T) {
	originalLevel := ctxlog.LevelVar.Level()
	defer ctxlog.LevelVar.Set(originalLevel)

	t.Setenv("SCRIPTDIR_DEBUG", "true")

	var got config.Config

	require.NoError(t, probeRoot(&got).Run(context.Background(), []string{"scriptdir", "probe"}))
	assert.True(t, got.Debug)
}

func TestBefore_InvalidLogFormat(t *testing.T) {
	var got config.Config

	err := probeRoot(&got).Run(context.Background(), []string{"scriptdir", "--log-format", "xml", "probe"})
	assert.Error(t, err)
}

func TestRoot_Resolve(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	script := filepath.Join(root, "tools", "gen.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(script), 0o755))
	require.NoError(t, os.WriteFile(script, nil, 0o644))

	var out bytes.Buffer

	app := New()
	app.Writer = &out

	require.NoError(t, app.Run(context.Background(), []string{"scriptdir", "resolve", "-o", "yaml", script}))
	assert.Contains(t, out.String(), "script: "+script)
	assert.Contains(t, out.String(), "dir: "+filepath.Join(root, "tools"))
}
