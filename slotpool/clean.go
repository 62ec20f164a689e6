// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotpool

// cleanStack is a LIFO of SlotIds that are ready for immediate allocation:
// no decommit needed, cache-friendly reuse of whatever was hottest last.
type cleanStack struct {
	slots []SlotId
}

func newCleanStack(initial []SlotId) cleanStack {
	slots := make([]SlotId, len(initial))
	copy(slots, initial)
	return cleanStack{slots: slots}
}

func (c *cleanStack) push(id SlotId) {
	c.slots = append(c.slots, id)
}

func (c *cleanStack) pushRange(begin, end SlotId) {
	for id := begin; id <= end; id++ {
		c.slots = append(c.slots, id)
	}
}

// pop removes and returns the most recently pushed slot. ok is false if the
// stack is empty.
func (c *cleanStack) pop() (SlotId, bool) {
	n := len(c.slots)
	if n == 0 {
		return 0, false
	}
	id := c.slots[n-1]
	c.slots = c.slots[:n-1]
	return id, true
}

func (c *cleanStack) len() int {
	return len(c.slots)
}
