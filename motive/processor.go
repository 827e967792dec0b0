package motive

import (
	"fmt"

	"github.com/oxcore/motive/allocator"
	"github.com/sirupsen/logrus"
)

// Hooks is the derived-algorithm surface that Base invokes. A concrete
// Processor (scalar, matrix, rig, or any future algorithm) embeds *Base and
// implements Hooks to populate, relocate, and resize its own parallel
// arrays in lockstep with the allocator.
type Hooks interface {
	// InitializeIndices populates the derivation's parallel arrays for a
	// newly allocated run [base, base+width).
	InitializeIndices(init Init, base, width int)

	// RemoveIndices is called before a run is freed. Optional to act on;
	// clearing/poisoning the derivation's arrays here is not required for
	// plain slices since SetNumIndices/MoveIndexRange fully own layout.
	RemoveIndices(base, width int)

	// MoveIndices copies width slots within the derivation's parallel
	// arrays from src to dst, preserving per-slot value semantics across a
	// Defragment relocation.
	MoveIndices(src, dst, width int)

	// SetNumIndices resizes the derivation's parallel arrays to n slots.
	// New entries (when growing) must be initialized to a reset state.
	SetNumIndices(n int)
}

// Processor is the uniform surface the Engine drives every frame. Type and
// Priority are constant per derivation; AdvanceFrame is where a concrete
// Processor defragments (see Base.Defragment) and then batch-advances every
// live slot by dt.
type Processor interface {
	Type() TypeTag
	Priority() Priority
	AdvanceFrame(dt float32)
}

// Base is the processor substrate shared by every algorithm: it owns the
// IndexAllocator, the slot→Handle back-pointer table, and the handle
// rebinding protocol, and proxies allocator relocation events to the
// derived Hooks. A concrete Processor embeds *Base and implements Hooks
// plus Processor.Type/Priority/AdvanceFrame.
//
// Base is not safe for concurrent use; advancement of a single Processor is
// single-threaded.
type Base struct {
	alloc *allocator.IndexAllocator
	hooks Hooks

	// backPointers[slot] is the Handle owning the run based at slot, or nil
	// for interior slots and freed slots.
	backPointers []*Handle

	// debug enables contract-violation panics in place of release-mode
	// no-ops/silent skips. Set via NewBase's engine wiring.
	debug bool

	// advancing is set for the duration of a call bracketed by
	// BeginAdvanceFrame/EndAdvanceFrame, letting RemoveMotivator detect a
	// processor trying to remove one of its own motivators mid-advance.
	advancing bool

	log *logrus.Entry
}

// NewBase constructs a Base wired to hooks. debug controls whether
// programmer-contract violations panic (development) or are tolerated
// (production), some with a logged warning and some silently.
func NewBase(typeTag TypeTag, hooks Hooks, debug bool) *Base {
	b := &Base{
		hooks: hooks,
		debug: debug,
		log:   logrus.WithField("processor", string(typeTag)),
	}
	b.alloc = allocator.New(b)
	return b
}

// SetNumIndices implements allocator.Callbacks by growing/shrinking the
// back-pointer table and delegating to the derived Hooks.
func (b *Base) SetNumIndices(n int) {
	if n < len(b.backPointers) {
		b.backPointers = b.backPointers[:n]
	} else {
		for len(b.backPointers) < n {
			b.backPointers = append(b.backPointers, nil)
		}
	}
	b.hooks.SetNumIndices(n)
}

// MoveIndexRange implements allocator.Callbacks. It moves the back-pointer
// entry and rebinds the involved Handle to its new base before delegating
// to the derived Hooks.MoveIndices, so a relocation is atomic from any
// observer's point of view.
func (b *Base) MoveIndexRange(src, dst, width int) {
	h := b.backPointers[src]
	b.backPointers[src] = nil
	b.backPointers[dst] = h
	if h != nil {
		h.bind(b, dst)
	}
	b.hooks.MoveIndices(src, dst, width)
}

// InitializeMotivator allocates a run of width slots, writes handle at its
// base, invokes the derived InitializeIndices hook, and binds handle to
// (this, base). Calling it on a Handle that is already bound is a
// programmer-contract violation: it panics in debug mode, and in release
// mode a warning is logged and the prior binding is abandoned (the old run
// leaks until explicitly removed) rather than attempting recovery: this class of
// mistake is treated as fatal/undefined, not something to paper over.
func (b *Base) InitializeMotivator(init Init, handle *Handle) {
	if handle.Bound() {
		if b.debug {
			panic(fmt.Errorf("%w: type=%s", ErrAlreadyBound, init.Type))
		}
		b.log.WithField("base", handle.base).Warn("InitializeMotivator called on an already-bound handle")
	}

	base := b.alloc.Allocate(init.Width)
	for len(b.backPointers) <= base {
		b.backPointers = append(b.backPointers, nil)
	}
	b.backPointers[base] = handle
	b.hooks.InitializeIndices(init, base, init.Width)
	handle.bind(b, base)
}

// removeMotivator implements processorBinder for Handle.Remove.
func (b *Base) removeMotivator(base int) {
	b.RemoveMotivator(base)
}

// RemoveMotivator frees the run based at base: invokes the derived
// RemoveIndices hook, clears the back-pointer, and frees the run in the
// allocator. If the run's back-pointer held a still-live Handle, that
// Handle is Reset so it cannot be mistaken for still bound.
func (b *Base) RemoveMotivator(base int) {
	if b.advancing {
		if b.debug {
			panic(fmt.Sprintf("motive: RemoveMotivator called on base %d from within AdvanceFrame", base))
		}
		b.log.WithField("base", base).Warn("RemoveMotivator called from within AdvanceFrame; ignoring")
		return
	}

	width := b.alloc.CountForIndex(base)
	if width == 0 {
		if b.debug {
			panic(fmt.Sprintf("motive: RemoveMotivator called on non-base slot %d", base))
		}
		return
	}

	b.hooks.RemoveIndices(base, width)

	if h := b.backPointers[base]; h != nil {
		h.Reset()
	}
	b.backPointers[base] = nil
	b.alloc.Free(base)
}

// TransferMotivator atomically retargets ownership of the run based at
// base from whatever Handle currently owns it to newHandle: the old owner
// (if any) is Reset, newHandle is written into the back-pointer table and
// bound to (this, base). The underlying per-slot state is unchanged, which
// is what lets this realize move/copy semantics for handles.
func (b *Base) TransferMotivator(base int, newHandle *Handle) {
	if old := b.backPointers[base]; old != nil {
		old.Reset()
	}
	b.backPointers[base] = newHandle
	newHandle.bind(b, base)
}

// ValidMotivator reports whether base is a live run's base and its
// back-pointer is exactly handle.
func (b *Base) ValidMotivator(base int, handle *Handle) bool {
	if base < 0 || base >= len(b.backPointers) {
		return false
	}
	return b.alloc.CountForIndex(base) > 0 && b.backPointers[base] == handle
}

// Dimensions proxies to the allocator: the width of the live run based at
// base, or 0 if base is not a live base.
func (b *Base) Dimensions(base int) int {
	return b.alloc.CountForIndex(base)
}

// BeginAdvanceFrame marks this processor as currently advancing. A concrete
// Processor calls this first thing in its own AdvanceFrame, paired with a
// deferred EndAdvanceFrame, so that RemoveMotivator can trap a motivator
// being removed from within the same frame it's being advanced — batch
// advancement walks the slot array by index, and a removal mid-walk would
// shift or invalidate indices out from under it.
func (b *Base) BeginAdvanceFrame() {
	b.advancing = true
}

// EndAdvanceFrame clears the advancing flag set by BeginAdvanceFrame.
func (b *Base) EndAdvanceFrame() {
	b.advancing = false
}

// Defragment compacts live runs to occupy a slot-space prefix. Concrete
// Processors typically call this first thing in AdvanceFrame, before
// batch-advancing slots, so that advancement always walks a dense prefix.
func (b *Base) Defragment() {
	b.alloc.Defragment()
}

// VerifyInternalState walks every live run and asserts the substrate's
// invariants: each base has a non-nil back-pointer whose binding matches,
// each interior slot is nil, and the back-pointer table's length matches
// the allocator's high-water mark. Returns the first violation found, or
// nil if the processor's internal state is consistent. Intended for tests
// and debug-mode checks, not the hot path.
func (b *Base) VerifyInternalState() error {
	if got, want := len(b.backPointers), b.alloc.HighWater(); got != want {
		return fmt.Errorf("motive: back-pointer table length %d does not match allocator high-water mark %d", got, want)
	}

	for _, base := range b.alloc.LiveBases() {
		width := b.alloc.CountForIndex(base)
		h := b.backPointers[base]
		if h == nil {
			return fmt.Errorf("motive: live run base %d has a nil back-pointer", base)
		}
		if !h.Bound() || h.base != base {
			return fmt.Errorf("motive: live run base %d's back-pointer handle is not bound to it", base)
		}
		for i := base + 1; i < base+width; i++ {
			if b.backPointers[i] != nil {
				return fmt.Errorf("motive: interior slot %d of run [%d,%d) has a non-nil back-pointer", i, base, base+width)
			}
		}
	}
	return nil
}
