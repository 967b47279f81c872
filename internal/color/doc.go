// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color adds ANSI color codes to console output when the terminal supports it.
package color
