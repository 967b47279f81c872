// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the runtime settings that are computed once at startup
// and then passed down through the context.
package config

import (
	"context"
	"slices"
)

// DebugFlag is the command line flag that enables debug mode.
const DebugFlag = "--debug"

// Config is the process configuration. It is read-only after startup.
type Config struct {
	// Debug enables debug logging and failure announcements for callbacks.
	Debug bool
	// LogFormat selects the log handler, "pretty" or "json".
	LogFormat string
}

type configKey struct{}

// FromArgs builds a Config from a raw argument list.
// Debug is true when the list contains DebugFlag.
// The first element is treated as the program name and ignored.
func FromArgs(args []string) Config {
	if len(args) > 0 {
		args = args[1:]
	}

	// Everything after "--" belongs to a child command.
	if i := slices.Index(args, "--"); i >= 0 {
		args = args[:i]
	}

	return Config{
		Debug: slices.Contains(args, DebugFlag),
	}
}

// New returns a copy of ctx carrying cfg.
func New(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the Config stored in ctx, or the zero Config.
func FromContext(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}
