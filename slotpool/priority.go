// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Size-priority queue: keeps a rangeId addressable max-heap keyed by an
// estimate of its range length, so alloc can always pull the largest dirty
// range for batched decommit.
//
// The heap itself is the textbook container/heap indexed-priority-queue
// pattern (see container/heap's own priority queue example): a slice
// implementing heap.Interface plus a side index from the caller's key (here
// rangeId, there an arbitrary item pointer) to the item's current heap
// position, so an existing entry's priority can be changed, or the entry
// removed outright, in O(log n) instead of a linear scan.

package slotpool

import "container/heap"

// refreshMask gates how often a growing range's priority is recomputed.
// spec.md permits any cadence, including "every update"; this pool uses the
// cadence the source itself used (refresh when the new length's low bits,
// per this mask, are all zero), trading slightly stale priorities for far
// fewer heap fixups on a hot coalescing path. See DESIGN.md for the two
// candidate masks the source carried across its revisions.
const refreshMask = 0x11111

type pqItem struct {
	id       rangeId
	priority int
	index    int // maintained by heap.Interface's Swap
}

type priorityHeap []*pqItem

func (h priorityHeap) Len() int { return len(h) }

func (h priorityHeap) Less(i, j int) bool {
	// Max-heap: larger priority sorts first.
	return h[i].priority > h[j].priority
}

func (h priorityHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *priorityHeap) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *priorityHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// priorityQueue is the rangeId-addressable wrapper around priorityHeap.
type priorityQueue struct {
	h     priorityHeap
	items map[rangeId]*pqItem
}

func newPriorityQueue() priorityQueue {
	return priorityQueue{items: make(map[rangeId]*pqItem)}
}

func (q *priorityQueue) push(id rangeId, priority int) {
	item := &pqItem{id: id, priority: priority}
	q.items[id] = item
	heap.Push(&q.h, item)
}

// refresh updates id's priority if present, reheapifying around it. Callers
// decide, per the lazy-refresh policy, whether to call this on every grow
// or only when refreshMask says so.
func (q *priorityQueue) refresh(id rangeId, priority int) {
	item, ok := q.items[id]
	if !ok {
		return
	}
	item.priority = priority
	heap.Fix(&q.h, item.index)
}

// remove drops id from the queue outright, used when two ranges merge and
// the right-hand range's id is retired.
func (q *priorityQueue) remove(id rangeId) {
	item, ok := q.items[id]
	if !ok {
		return
	}
	heap.Remove(&q.h, item.index)
	delete(q.items, id)
}

// popMax removes and returns the id with the largest priority. ok is false
// if the queue is empty.
func (q *priorityQueue) popMax() (rangeId, bool) {
	if q.h.Len() == 0 {
		return noRange, false
	}
	item := heap.Pop(&q.h).(*pqItem)
	delete(q.items, item.id)
	return item.id, true
}

func (q *priorityQueue) len() int {
	return q.h.Len()
}
