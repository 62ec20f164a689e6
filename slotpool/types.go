// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotpool

// SlotId identifies one slot in the pool's contiguous bank. Valid values
// are in [0, MaxInstances).
type SlotId int32

// rangeId is the stable, opaque identity of a live dirty range. It is
// never reused while the range it names is live, but once that range is
// consumed (by alloc) or merged away (by free), the id may be handed back
// out by the range store for an unrelated, later range.
type rangeId int32

// noRange is the sentinel stored in a boundaryIndex slot that has no
// associated range.
const noRange rangeId = -1

// rng is a closed interval [begin, end] of SlotIds. Every slot in the
// interval is dirty and belongs to this range.
type rng struct {
	begin SlotId
	end   SlotId
}

// length returns the number of slots covered by r.
func (r rng) length() int {
	return int(r.end-r.begin) + 1
}
