// Copyright 2024 The slotpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotpool

// decommitCall records a single call made to fakeDecommitter, letting
// tests check exactly what regions were released and in what order.
type decommitCall struct {
	address uintptr
	length  uintptr
}

// fakeDecommitter is the mock decommit capability §9 calls for: it never
// fails and records every call so tests can assert on batching behavior
// without touching real memory.
type fakeDecommitter struct {
	calls []decommitCall
}

func (f *fakeDecommitter) Decommit(address, length uintptr) error {
	f.calls = append(f.calls, decommitCall{address: address, length: length})
	return nil
}

// failingDecommitter always fails, for exercising the fatal path.
type failingDecommitter struct {
	err error
}

func (f failingDecommitter) Decommit(uintptr, uintptr) error {
	return f.err
}

const testSlotSize = 64 * 1024
const testBase = 0x10_000_0000

func allSlots(n int) []SlotId {
	ids := make([]SlotId, n)
	for i := range ids {
		ids[i] = SlotId(i)
	}
	return ids
}

func newTestPool(n int, dec Decommitter) *Pool {
	return New(Config{
		MaxInstances: n,
		SlotSize:     testSlotSize,
		Base:         testBase,
		InitialClean: allSlots(n),
		Decommit:     dec,
	})
}
