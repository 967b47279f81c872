// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger built on log/slog.
//
// The default is a pretty console handler writing to stderr. The level comes from
// the <EXECUTABLE>_LOG_LEVEL environment variable (DEBUG, INFO, WARN or ERROR,
// anything else is WARN) and can be forced to DEBUG with SetDebug.
package ctxlog
