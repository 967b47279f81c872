// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	prefix = "\033["
	suffix = "m"
	reset  = "\033[0m"
)

// Code is an ANSI SGR parameter.
type Code int

// Text attributes.
const (
	Reset Code = 0
	Bold  Code = 1
	Faint Code = 2
)

// Foreground colors.
const (
	FgRed       Code = 31
	FgGreen     Code = 32
	FgYellow    Code = 33
	FgBlue      Code = 34
	FgCyan      Code = 36
	FgWhite     Code = 37
	FgHiRed     Code = 91
	FgHiMagenta Code = 95
	FgHiWhite   Code = 97
)

var enabled = isColorEnabled(os.Stdout)

// Enabled reports whether color output is enabled for stdout.
//
// Color is disabled when NO_COLOR is set, forced on when FORCE_COLOR is set,
// and otherwise enabled only when stdout is a terminal.
func Enabled() bool {
	return enabled
}

// SetEnabled overrides terminal detection.
func SetEnabled(v bool) {
	enabled = v
}

// Colorize wraps str in the given codes followed by a reset.
// It returns str unchanged when color output is disabled.
func Colorize(str string, codes ...Code) string {
	if !enabled || len(codes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + 4*len(codes))
	sb.WriteString(prefix)

	for i, c := range codes {
		if i > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString(strconv.Itoa(int(c)))
	}

	sb.WriteString(suffix)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

func isColorEnabled(f *os.File) bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(f.Fd()))
}
