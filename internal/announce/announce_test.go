// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package announce

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc_ErrorIsAnnouncedAndReturned(t *testing.T) {
	var buf bytes.Buffer

	want := errors.New("x")
	failing := func() error { return want }

	err := Func(&buf, failing)()

	assert.True(t, err == want, "expected the identical error value, got %v", err) //nolint:errorlint
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "traceback (innermost frame):\n"), out)
	assert.Contains(t, out, "announce_test.go")
	assert.True(t, strings.HasSuffix(out, "error: x\n"), out)
}

func TestFunc_SuccessWritesNothing(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Func(&buf, func() error { return nil })())
	assert.Empty(t, buf.String())
}

func TestValue_ReturnsValueUnchanged(t *testing.T) {
	var buf bytes.Buffer

	v, err := Value(&buf, func() (int, error) { return 42, nil })()

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Empty(t, buf.String())
}

func TestValue_Error(t *testing.T) {
	var buf bytes.Buffer

	want := errors.New("no value")
	v, err := Value(&buf, func() (string, error) { return "partial", want })()

	assert.Equal(t, "partial", v)
	assert.ErrorIs(t, err, want)
	assert.Contains(t, buf.String(), "error: no value")
}

func TestCallback_PassesArgument(t *testing.T) {
	var buf bytes.Buffer

	var got string

	err := Callback(&buf, func(s string) error {
		got = s
		return nil
	})("dir")

	require.NoError(t, err)
	assert.Equal(t, "dir", got)
	assert.Empty(t, buf.String())
}

func raisePanic() error {
	panic("boom")
}

func TestFunc_PanicIsAnnouncedAndReraised(t *testing.T) {
	var buf bytes.Buffer

	assert.PanicsWithValue(t, "boom", func() {
		_ = Func(&buf, raisePanic)()
	})

	out := buf.String()
	assert.Contains(t, out, "announce.raisePanic")
	assert.Contains(t, out, "announce_test.go")
	assert.True(t, strings.HasSuffix(out, "panic: boom\n"), out)
}

func TestCallback_RuntimePanicKeepsValue(t *testing.T) {
	var buf bytes.Buffer

	var panicked any

	func() {
		defer func() { panicked = recover() }()

		_ = Callback(&buf, func(m map[string]int) error {
			m["a"] = 1 // nil map write
			return nil
		})(nil)
	}()

	var rerr interface{ RuntimeError() }

	require.NotNil(t, panicked)
	assert.Implements(t, &rerr, panicked)
	assert.Contains(t, buf.String(), "announce_test.go")
	assert.Contains(t, buf.String(), "panic: assignment to entry in nil map")
}

func TestPanicError_IdentityPreserved(t *testing.T) {
	var buf bytes.Buffer

	want := errors.New("panicked with error")

	defer func() {
		r := recover()
		assert.True(t, r == want, "expected the identical panic value, got %v", r) //nolint:errorlint
		assert.Contains(t, buf.String(), "panic: panicked with error")
	}()

	_ = Func(&buf, func() error { panic(want) })()
}

func TestFuncLocation(t *testing.T) {
	assert.Equal(t, frame{}, funcLocation(nil))
	assert.Equal(t, frame{}, funcLocation((func())(nil)))

	f := funcLocation(raisePanic)
	assert.Equal(t, "github.com/matt-FFFFFF/scriptdir/internal/announce.raisePanic", f.Function)
	assert.True(t, strings.HasSuffix(f.File, "announce_test.go"))
	assert.Equal(t, "  <unknown>\n", frame{}.String())
}
