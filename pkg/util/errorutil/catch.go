// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package errorutil holds helpers for code that reports internal errors by
// panicking and converts them back to errors at its API boundary.
package errorutil

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

// ShouldCatch returns true if the panic payload r should be converted into
// an error, along with the converted error. Payloads that are not errors,
// such as the strings thrown by the runtime for scheduler or allocator
// failures, must not be caught: the process cannot continue safely.
//
// Runtime errors (nil dereferences, out of range indexes) are converted into
// assertion failures, which carry a stack trace.
func ShouldCatch(r interface{}) (bool, error) {
	err, ok := r.(error)
	if !ok {
		return false, nil
	}
	if errors.HasInterface(err, (*runtime.Error)(nil)) {
		return true, errors.HandleAsAssertionFailure(err)
	}
	return true, err
}

// CatchPanic is meant to be deferred by functions that report internal
// errors with panics. It recovers such a panic and stores it in *errp.
//
//	func Run() (err error) {
//	  defer errorutil.CatchPanic(&err)
//	  ...
//	}
//
// This is only safe when the panicking code does not update shared state and
// does not hold locks.
func CatchPanic(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	ok, err := ShouldCatch(r)
	if !ok {
		panic(r)
	}
	*errp = err
}
