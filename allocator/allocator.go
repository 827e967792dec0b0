// Package allocator implements the dense slot allocator shared by every
// motive processor: contiguous runs of one or more slots, recycled by exact
// width, and compacted on demand via relocation callbacks.
package allocator

import (
	"fmt"
	"sort"
)

// Callbacks receives the two events an IndexAllocator delegates to its owner.
// A processor implements this to keep its parallel arrays in lockstep with
// the allocator's slot space.
type Callbacks interface {
	// SetNumIndices resizes the owner's parallel arrays to n slots. When
	// shrinking, slots at index >= n are discarded. When growing, new slots
	// must be initialized to a reset (idle) state.
	SetNumIndices(n int)

	// MoveIndexRange copies width slots from src to dst within the owner's
	// parallel arrays. dst is guaranteed unoccupied at the time of the call.
	MoveIndexRange(src, dst, width int)
}

// run describes one contiguous range of slots, either live or free.
type run struct {
	base, width int
}

// IndexAllocator hands out contiguous slot runs of a requested width,
// recycles freed runs by exact width match, and compacts live runs into a
// slot-space prefix on demand.
//
// Not safe for concurrent use; like the processor that owns it, an
// IndexAllocator is mutated from a single goroutine at a time.
type IndexAllocator struct {
	cb Callbacks

	// highWater is the current size of the owner's parallel arrays: the
	// total count of slots handed out, live or free. Defragment lowers it
	// to the end of the highest live run.
	highWater int

	// live maps a run's base slot to its width, for every currently
	// allocated run.
	live map[int]int

	// free holds every run returned via Free, keyed by width for O(1) reuse
	// of an exact-width run.
	free map[int][]run
}

// New creates an IndexAllocator that proxies SetNumIndices/MoveIndexRange
// events to cb.
func New(cb Callbacks) *IndexAllocator {
	return &IndexAllocator{
		cb:   cb,
		live: make(map[int]int),
		free: make(map[int][]run),
	}
}

// Allocate hands out a contiguous run of width slots and returns its base.
// A free run of exactly width is reused in O(1) if one exists; otherwise the
// high-water mark is extended and SetNumIndices is emitted.
//
// Panics if width < 1 — requesting a zero-or-negative-width run is a
// programmer-contract violation.
func (a *IndexAllocator) Allocate(width int) int {
	if width < 1 {
		panic(fmt.Sprintf("allocator: Allocate called with width %d, must be >= 1", width))
	}

	if bucket := a.free[width]; len(bucket) > 0 {
		last := len(bucket) - 1
		r := bucket[last]
		a.free[width] = bucket[:last]
		if len(a.free[width]) == 0 {
			delete(a.free, width)
		}
		a.live[r.base] = r.width
		return r.base
	}

	base := a.highWater
	a.highWater += width
	a.cb.SetNumIndices(a.highWater)
	a.live[base] = width
	return base
}

// Free releases the live run based at base back to the free list, keyed by
// its original width so a later Allocate of the same width reuses it in
// O(1). Does not shrink the high-water mark and emits no relocation event.
//
// Free on a slot that is not a live run's base is a programmer-contract
// violation: it panics rather than silently corrupting state.
func (a *IndexAllocator) Free(base int) {
	width, ok := a.live[base]
	if !ok {
		panic(fmt.Sprintf("allocator: Free called on non-base slot %d", base))
	}
	delete(a.live, base)
	a.free[width] = append(a.free[width], run{base: base, width: width})
}

// CountForIndex returns the width of the live run based at slot, or 0 if
// slot is not a live run's base (including interior slots of a run).
func (a *IndexAllocator) CountForIndex(slot int) int {
	return a.live[slot]
}

// ValidIndex reports whether slot falls inside any live run.
func (a *IndexAllocator) ValidIndex(slot int) bool {
	for base, width := range a.live {
		if slot >= base && slot < base+width {
			return true
		}
	}
	return false
}

// HighWater returns the current high-water mark: the size the owner's
// parallel arrays are expected to have.
func (a *IndexAllocator) HighWater() int {
	return a.highWater
}

// LiveBases returns the base slots of every live run, in ascending order.
// Intended for diagnostics and VerifyInternalState, not hot-path use.
func (a *IndexAllocator) LiveBases() []int {
	bases := make([]int, 0, len(a.live))
	for base := range a.live {
		bases = append(bases, base)
	}
	sort.Ints(bases)
	return bases
}

// Defragment compacts live runs into a slot-space prefix with no gaps.
//
// Algorithm: repeatedly relocate one live run down into a lower-based free
// run that's wide enough for it, emitting MoveIndexRange and returning any
// leftover space in the free run to the free list. Live runs are tried from
// the highest base down (so the tail shrinks monotonically and a run is
// never relocated on top of itself); for each, free runs are tried from the
// lowest base up. A live/free pair that doesn't fit is skipped rather than
// ending the whole pass — a smaller live run further down may still fit a
// gap the largest one didn't. Terminates when no remaining live run fits
// any remaining lower-based free run. Free runs that still lie below the
// new high-water mark at that point (no live run was ever small enough to
// consume them) are preserved rather than discarded, so they stay available
// for a later Allocate of their width instead of leaking. Finishes by
// emitting SetNumIndices to truncate to the new high-water mark.
func (a *IndexAllocator) Defragment() {
	for a.relocateOnce() {
	}

	newHighWater := 0
	for base, width := range a.live {
		if end := base + width; end > newHighWater {
			newHighWater = end
		}
	}
	a.highWater = newHighWater

	for width, bucket := range a.free {
		kept := bucket[:0]
		for _, r := range bucket {
			if r.base < newHighWater {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(a.free, width)
		} else {
			a.free[width] = kept
		}
	}

	a.cb.SetNumIndices(a.highWater)
}

// relocateOnce finds one live run that can be moved into a lower-based free
// run wide enough for it and performs the move, returning true if a move
// was made, false if no live run currently fits any lower-based free run.
func (a *IndexAllocator) relocateOnce() bool {
	liveBases := make([]int, 0, len(a.live))
	for b := range a.live {
		liveBases = append(liveBases, b)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(liveBases)))

	for _, liveBase := range liveBases {
		liveWidth := a.live[liveBase]
		freeBase, freeWidth, ok := a.lowestFittingFree(liveBase, liveWidth)
		if !ok {
			continue
		}

		a.removeFree(freeBase, freeWidth)
		delete(a.live, liveBase)
		a.live[freeBase] = liveWidth
		a.cb.MoveIndexRange(liveBase, freeBase, liveWidth)

		// The vacated range [liveBase, liveBase+liveWidth) becomes free.
		a.free[liveWidth] = append(a.free[liveWidth], run{base: liveBase, width: liveWidth})

		if leftover := freeWidth - liveWidth; leftover > 0 {
			a.free[leftover] = append(a.free[leftover], run{base: freeBase + liveWidth, width: leftover})
		}
		return true
	}
	return false
}

// lowestFittingFree returns the lowest-base free run that lies below
// liveBase and is at least liveWidth wide, across every width bucket, or
// ok=false if none exists.
func (a *IndexAllocator) lowestFittingFree(liveBase, liveWidth int) (base, width int, ok bool) {
	base = -1
	for _, bucket := range a.free {
		for _, r := range bucket {
			if r.base >= liveBase || r.width < liveWidth {
				continue
			}
			if base == -1 || r.base < base {
				base, width, ok = r.base, r.width, true
			}
		}
	}
	return
}

func (a *IndexAllocator) removeFree(base, width int) {
	bucket := a.free[width]
	for i, r := range bucket {
		if r.base == base {
			bucket[i] = bucket[len(bucket)-1]
			a.free[width] = bucket[:len(bucket)-1]
			if len(a.free[width]) == 0 {
				delete(a.free, width)
			}
			return
		}
	}
}
