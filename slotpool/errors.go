// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotpool

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// assert reports a precondition violation: double free, free of a foreign
// or out-of-range index, or alloc on an empty pool. These are programmer
// errors, not runtime conditions a caller can recover from, so they throw
// the same way the Go runtime's own mcentral/mheap code throws on an
// internal invariant failure rather than returning an error value.
func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		throw(fmt.Sprintf(format, args...))
	}
}

// throw raises an unrecoverable panic. It exists as a named chokepoint,
// mirroring the runtime's throw(s string), so that every fatal condition in
// this package is easy to grep for and, if ever needed, to hook.
func throw(msg string) {
	panic(poolError(msg))
}

// poolError is the panic value used for precondition violations.
type poolError string

func (e poolError) Error() string { return string(e) }

// DecommitFailure is the panic value raised when the injected Decommitter
// reports a failure. It is unrecoverable: if the OS refuses to release a
// valid region, any later allocation of that slot would hand a caller
// another instance's stale residual memory, a confidentiality violation
// this pool exists in part to prevent. There is no retry and no recovery
// path.
type DecommitFailure struct {
	Address uintptr
	Length  uintptr
	Err     error
}

func (e *DecommitFailure) Error() string {
	return fmt.Sprintf("slotpool: decommit(0x%x, %d) failed: %v", e.Address, e.Length, e.Err)
}

func (e *DecommitFailure) Unwrap() error { return e.Err }

// fatalDecommit wraps err for a stack trace, logs it, and raises an
// unrecoverable panic. It never returns.
func (p *Pool) fatalDecommit(address, length uintptr, err error) {
	wrapped := errors.Wrapf(err, "decommit failed at 0x%x len %d", address, length)
	p.log.Error("decommit failed, pool is now unrecoverable",
		zap.Uint64("address", uint64(address)),
		zap.Uint64("length", uint64(length)),
		zap.Error(wrapped),
	)
	panic(&DecommitFailure{Address: address, Length: length, Err: wrapped})
}
