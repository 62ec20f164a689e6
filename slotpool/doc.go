// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slotpool implements a lazy, coalescing slot allocator.
//
// It manages a fixed, contiguous bank of identically-sized memory regions
// ("slots" — e.g. guard-page-bounded stacks for a pooling instance
// allocator). When a slot is freed it becomes dirty: the physical pages
// still hold residual data and must be decommitted back to the operating
// system before the slot can be reused. Decommit is expensive per call but
// scales well with length, so the pool's central job is to coalesce
// adjacent dirty slots into maximal ranges and decommit each range in one
// batched syscall at the moment of reallocation, rather than one syscall
// per freed slot.
//
// The pool's data structures are:
//
//	cleanStack:    LIFO of immediately-usable slot indices.
//	rangeStore:    stable-id slab of (begin, end) ranges of dirty slots.
//	boundaryIndex: two dense lookups, slot -> range id, keyed by each
//	               range's begin and end, used to find merge candidates
//	               in O(1).
//	priorityQueue: range id keyed by (estimated) range length; yields the
//	               largest range to decommit next.
//
// Allocating a small bank of slots proceeds as follows:
//
//	1. If the clean stack is non-empty, pop and return a slot. No syscall.
//	2. Otherwise, pop the largest dirty range from the priority queue,
//	   decommit its whole extent in a single call, return its first slot,
//	   and push the remainder onto the clean stack so that subsequent
//	   allocations are free until that reserve runs out.
//
// Freeing a slot proceeds by consulting the boundary indices at the slot's
// immediate left and right neighbors and merging with up to two existing
// dirty ranges, or creating a fresh single-slot range if neither neighbor
// is dirty.
//
// This package is not safe for concurrent use. It performs no internal
// locking, blocks (only inside the injected Decommitter), and expects a
// single thread of control; callers that need concurrent access must
// serialize at an outer layer, exactly as the Go runtime's own allocator
// serializes access to an mcentral with its own lock one layer up.
package slotpool
