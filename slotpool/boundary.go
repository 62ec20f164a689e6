// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Boundary indices: slot -> range id, keyed by each range's begin or end.
//
// See doc.go for an overview. The dense-array form is chosen the same way
// msize.go chooses its size_to_class lookup arrays over a map: one word per
// slot buys O(1) worst-case lookup and trivial cache behavior, which is the
// right trade for MaxInstances in the hundreds-to-low-thousands range this
// pool is built for.

package slotpool

// boundaryIndex maps a SlotId to the rangeId of the dirty range that starts
// (or, for the symmetric end index, ends) at that slot. A slot with no
// associated range reads back noRange.
type boundaryIndex struct {
	ids []rangeId
}

func newBoundaryIndex(maxInstances int) boundaryIndex {
	ids := make([]rangeId, maxInstances)
	for i := range ids {
		ids[i] = noRange
	}
	return boundaryIndex{ids: ids}
}

func (b *boundaryIndex) get(slot SlotId) rangeId {
	return b.ids[slot]
}

func (b *boundaryIndex) set(slot SlotId, id rangeId) {
	b.ids[slot] = id
}

func (b *boundaryIndex) clear(slot SlotId) {
	b.ids[slot] = noRange
}

// take returns the rangeId at slot and clears it in one step, matching the
// "consult and remove" phrasing of the free algorithm: step 1 and step 2
// both remove whatever they find before dispatching on the result.
func (b *boundaryIndex) take(slot SlotId) (rangeId, bool) {
	id := b.ids[slot]
	if id == noRange {
		return noRange, false
	}
	b.ids[slot] = noRange
	return id, true
}
