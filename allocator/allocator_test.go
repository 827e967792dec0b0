package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCallbacks records every SetNumIndices/MoveIndexRange event so tests
// can assert on the exact relocation sequence an allocator emits.
type fakeCallbacks struct {
	n     int
	moves []moveEvent
}

type moveEvent struct {
	src, dst, width int
}

func (f *fakeCallbacks) SetNumIndices(n int) { f.n = n }

func (f *fakeCallbacks) MoveIndexRange(src, dst, width int) {
	f.moves = append(f.moves, moveEvent{src, dst, width})
}

func TestAllocator_AllocateGrowsHighWaterMark(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)

	base0 := a.Allocate(1)
	assert.Equal(t, 0, base0)
	assert.Equal(t, 1, a.HighWater())
	assert.Equal(t, 1, cb.n)

	base1 := a.Allocate(3)
	assert.Equal(t, 1, base1)
	assert.Equal(t, 4, a.HighWater())
	assert.Equal(t, 4, cb.n)
}

func TestAllocator_AllocateRejectsNonPositiveWidth(t *testing.T) {
	a := New(&fakeCallbacks{})
	assert.Panics(t, func() { a.Allocate(0) })
	assert.Panics(t, func() { a.Allocate(-1) })
}

func TestAllocator_FreeReusesExactWidth(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)

	base0 := a.Allocate(3)
	base1 := a.Allocate(3)
	_ = base1

	a.Free(base0)
	cb.n = -1 // would be wrong if Allocate emitted a grow event below

	reused := a.Allocate(3)
	assert.Equal(t, base0, reused)
	assert.Equal(t, -1, cb.n, "reuse of a freed run must not emit SetNumIndices")
}

func TestAllocator_FreeOnInteriorSlotPanics(t *testing.T) {
	a := New(&fakeCallbacks{})
	a.Allocate(3)
	assert.Panics(t, func() { a.Free(1) })
	assert.Panics(t, func() { a.Free(99) })
}

func TestAllocator_CountForIndexAndValidIndex(t *testing.T) {
	a := New(&fakeCallbacks{})
	base := a.Allocate(3)

	assert.Equal(t, 3, a.CountForIndex(base))
	assert.Equal(t, 0, a.CountForIndex(base+1), "interior slot has no width")
	assert.Equal(t, 0, a.CountForIndex(base+2))

	assert.True(t, a.ValidIndex(base))
	assert.True(t, a.ValidIndex(base+2))
	assert.False(t, a.ValidIndex(base+3))
}

// TestAllocator_DefragmentScenario covers three width-3 runs, removing the
// middle one, defragmenting, and expecting the last run to be relocated
// down into the freed gap.
func TestAllocator_DefragmentScenario(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)

	h1 := a.Allocate(3) // [0, 3)
	h2 := a.Allocate(3) // [3, 6)
	h3 := a.Allocate(3) // [6, 9)
	require.Equal(t, 0, h1)
	require.Equal(t, 3, h2)
	require.Equal(t, 6, h3)
	require.Equal(t, 9, a.HighWater())

	a.Free(h2)
	a.Defragment()

	require.Len(t, cb.moves, 1)
	assert.Equal(t, moveEvent{src: h3, dst: h2, width: 3}, cb.moves[0])
	assert.Equal(t, 6, a.HighWater())
	assert.Equal(t, 3, a.CountForIndex(h1))
	assert.Equal(t, 3, a.CountForIndex(h2), "h3's run now lives at h2's old base")
	assert.False(t, a.ValidIndex(h3))
}

func TestAllocator_DefragmentOnAlreadyCompactIsNoOp(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)
	a.Allocate(2)
	a.Allocate(2)

	a.Defragment()
	assert.Empty(t, cb.moves)
	assert.Equal(t, 4, a.HighWater())
}

func TestAllocator_RemoveLastLiveRunZeroesHighWaterAfterDefragment(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)
	only := a.Allocate(5)

	a.Free(only)
	a.Defragment()

	assert.Equal(t, 0, a.HighWater())
	assert.Equal(t, 0, cb.n)
}

// TestAllocator_DefragmentSkipsNonFittingPairWithoutLeakingFreeRun covers a
// free run that's narrower than the only live run above it: Defragment
// cannot relocate anything (no live run is small enough to fit the gap),
// but the free run must stay tracked rather than vanish when the free map
// is reconciled against the new high-water mark.
func TestAllocator_DefragmentSkipsNonFittingPairWithoutLeakingFreeRun(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)

	a.Allocate(2) // [0, 2), freed below
	live := a.Allocate(3) // [2, 5)
	require.Equal(t, 2, live)

	a.Free(0)
	a.Defragment()

	assert.Empty(t, cb.moves, "no live run fits the width-2 gap")
	assert.Equal(t, 5, a.HighWater(), "the live run could not be relocated, so high water is unchanged")
	assert.Equal(t, 3, a.CountForIndex(2))

	cb.n = -1
	reused := a.Allocate(2)
	assert.Equal(t, 0, reused, "the width-2 gap must still be tracked as free, not leaked")
	assert.Equal(t, -1, cb.n, "reusing a still-tracked free run must not emit SetNumIndices")
}

// TestAllocator_DefragmentFindsFittingPairPastTheHighestLiveRun covers four
// runs where the highest-base live run doesn't fit the only free gap, but a
// live run at a lower (non-highest) base does: Defragment must keep
// searching instead of stopping at the first mismatched pair.
func TestAllocator_DefragmentFindsFittingPairPastTheHighestLiveRun(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)

	base := a.Allocate(1) // [0, 1), immovable baseline, nothing free below it
	_ = a.Allocate(2)     // [1, 3), freed below
	mid := a.Allocate(1)  // [3, 4)
	top := a.Allocate(3)  // [4, 7)
	require.Equal(t, 0, base)
	require.Equal(t, 3, mid)
	require.Equal(t, 4, top)

	a.Free(1)
	a.Defragment()

	// The only free run (width 2, base 1) is too narrow for the highest
	// live run (top, width 3), but wide enough for mid (width 1): mid
	// relocates into it instead of the pass giving up after top doesn't fit.
	require.Len(t, cb.moves, 1)
	assert.Equal(t, moveEvent{src: mid, dst: 1, width: 1}, cb.moves[0])
	assert.Equal(t, 7, a.HighWater(), "top was never moved, so high water is unchanged")
	assert.Equal(t, 1, a.CountForIndex(0), "base untouched")
	assert.Equal(t, 1, a.CountForIndex(1), "mid now lives at its new base")
	assert.Equal(t, 3, a.CountForIndex(top), "top could not be relocated into the narrower gap")
}

func TestAllocator_DefragmentPicksExactWidthFreeRunFirst(t *testing.T) {
	cb := &fakeCallbacks{}
	a := New(cb)

	first := a.Allocate(4)  // [0, 4)
	mid := a.Allocate(1)    // [4, 5)
	tail := a.Allocate(4)   // [5, 9)
	require.Equal(t, 0, first)
	require.Equal(t, 4, mid)
	require.Equal(t, 5, tail)

	a.Free(first)
	a.Free(mid)

	a.Defragment()

	// The width-4 free run at base 0 is the lowest free run and fits the
	// highest live run (tail, width 4) exactly: tail relocates to base 0.
	// The width-1 free run at base 4 then lies above the new highest live
	// run, so compaction stops there.
	require.Len(t, cb.moves, 1)
	assert.Equal(t, moveEvent{src: tail, dst: first, width: 4}, cb.moves[0])
	assert.Equal(t, 4, a.HighWater())
	assert.Equal(t, 4, a.CountForIndex(0))
	assert.False(t, a.ValidIndex(tail))
}
