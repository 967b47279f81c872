// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workdir runs code with the process working directory temporarily set
// to the directory of a script, restoring the previous directory afterwards.
//
// The location to enter is always passed explicitly: a script path
// (RunScript), a directory (RunDir), or the calling Go source file captured with
// runtime.Caller (RunHere). Symlinks are resolved before the directory is entered.
//
// The previous directory is restored on every exit path: normal return,
// returned error, and panic. Scopes nest and restore in last-in-first-out order.
//
// If the callback fails and restoring the directory also fails, the callback's
// error (or panic) is what the caller sees and the restore failure is logged.
// If the callback succeeds and the restore fails, the restore error is returned.
//
// The working directory is global to the process. Nothing here is safe to use
// from concurrent goroutines unless the caller serialises the scopes.
package workdir
