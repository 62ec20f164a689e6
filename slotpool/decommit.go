// Copyright 2024 The slotpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Decommit: the external collaborator contract. The pool never touches
// slot contents itself; it only asks a Decommitter to release pages. The
// production implementation here reinterprets a raw address as a []byte
// the same way the pack's buddy allocator (balloc) reinterprets its mmap'd
// base pointer for unix.Munmap: compute a bounded slice header over the
// address range, then hand it to the unix package.

package slotpool

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Decommitter releases the physical backing of [address, address+length)
// to the operating system such that a subsequent access faults in a
// zeroed page. It must accept any (address, length) the pool produces: a
// page-aligned, previously-committed region sized to whole slots.
type Decommitter interface {
	Decommit(address uintptr, length uintptr) error
}

// UnixDecommitter is the production Decommitter, backed by
// madvise(MADV_DONTNEED) on the given address range. It assumes address
// and length are already page-aligned, which is guaranteed here because
// every slot is slotSize bytes and slotSize is chosen by the caller to be
// a multiple of the page size.
type UnixDecommitter struct{}

// Decommit implements Decommitter.
func (UnixDecommitter) Decommit(address uintptr, length uintptr) error {
	if length == 0 {
		return nil
	}
	region := unsafe.Slice((*byte)(unsafe.Pointer(address)), length)
	return unix.Madvise(region, unix.MADV_DONTNEED)
}
