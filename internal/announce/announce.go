// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package announce wraps callbacks so that their failures are written to a
// diagnostic stream before being passed on unchanged.
//
// Use it for callbacks handed to code that discards their errors or recovers
// their panics. A returned error is announced and returned as the same value.
// A panic is announced and re-raised with the same value. Successful calls
// write nothing.
package announce

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strings"
)

const maxFrames = 64

// Func wraps a callback that takes no arguments.
// If w is nil, failures are written to os.Stderr.
func Func(w io.Writer, fn func() error) func() error {
	loc := funcLocation(fn)

	return func() error {
		defer onPanic(w)

		err := fn()
		if err != nil {
			write(w, loc, "error: "+err.Error())
		}

		return err
	}
}

// Value wraps a callback that returns a value.
func Value[T any](w io.Writer, fn func() (T, error)) func() (T, error) {
	loc := funcLocation(fn)

	return func() (T, error) {
		defer onPanic(w)

		v, err := fn()
		if err != nil {
			write(w, loc, "error: "+err.Error())
		}

		return v, err
	}
}

// Callback wraps a callback that takes one argument.
func Callback[A any](w io.Writer, fn func(A) error) func(A) error {
	loc := funcLocation(fn)

	return func(a A) error {
		defer onPanic(w)

		err := fn(a)
		if err != nil {
			write(w, loc, "error: "+err.Error())
		}

		return err
	}
}

// frame is the innermost location reported for a failure.
type frame struct {
	Function string
	File     string
	Line     int
}

func (f frame) String() string {
	if f.Function == "" {
		return "  <unknown>\n"
	}

	return fmt.Sprintf("  %s\n  \t%s:%d\n", f.Function, f.File, f.Line)
}

func onPanic(w io.Writer) {
	r := recover()
	if r == nil {
		return
	}

	write(w, panicFrame(), fmt.Sprintf("panic: %v", r))
	panic(r)
}

func write(w io.Writer, f frame, msg string) {
	if w == nil {
		w = os.Stderr
	}

	sb := strings.Builder{}
	sb.WriteString("traceback (innermost frame):\n")
	sb.WriteString(f.String())
	sb.WriteString(msg)
	sb.WriteString("\n")

	_, _ = io.WriteString(w, sb.String())
}

// funcLocation returns where fn is defined. Errors carry no stack, so this is
// the closest frame available for them.
func funcLocation(fn any) frame {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return frame{}
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return frame{}
	}

	file, line := rf.FileLine(rf.Entry())

	return frame{Function: rf.Name(), File: file, Line: line}
}

// panicFrame must be called from the deferred function that recovered.
// It returns the first non-runtime frame below runtime.gopanic, which is
// where the panic was raised.
func panicFrame() frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	sawPanic := false

	for {
		f, more := frames.Next()

		if f.Function == "runtime.gopanic" {
			sawPanic = true
		} else if sawPanic && !isRuntime(f.Function) {
			return frame{Function: f.Function, File: f.File, Line: f.Line}
		}

		if !more {
			return frame{}
		}
	}
}

func isRuntime(fn string) bool {
	return strings.HasPrefix(fn, "runtime.") || strings.HasPrefix(fn, "internal/runtime/")
}
