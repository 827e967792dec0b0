package motive

// Handle (a "motivator") is the stable external reference to an animated
// value. It binds to at most one slot run at a time, inside one Processor.
// A zero-value Handle is Reset (unbound); Handle is safe to embed by value
// or pass by pointer, but once bound it must only be observed/mutated from
// one goroutine at a time.
type Handle struct {
	processor processorBinder
	base      int
	bound     bool
}

// processorBinder is the minimal surface a Processor exposes back to a
// Handle so the Handle can query its own validity and dimension without
// importing the concrete Processor type. Implemented by *Base.
type processorBinder interface {
	ValidMotivator(base int, h *Handle) bool
	Dimensions(base int) int
	removeMotivator(base int)
}

// Bound reports whether the Handle is currently bound to a live slot run.
func (h *Handle) Bound() bool {
	return h.bound && h.processor != nil && h.processor.ValidMotivator(h.base, h)
}

// Base returns the bound slot's base index. Only meaningful when Bound.
func (h *Handle) Base() int {
	return h.base
}

// Dimensions returns the width of the bound slot run, or 0 if unbound.
func (h *Handle) Dimensions() int {
	if !h.Bound() {
		return 0
	}
	return h.processor.Dimensions(h.base)
}

// Reset releases the Handle's binding without affecting the underlying
// slot run — the run itself is untouched; use RemoveMotivator on the
// Processor (or Handle.Remove) to actually free it.
func (h *Handle) Reset() {
	h.processor = nil
	h.base = 0
	h.bound = false
}

// Remove releases the underlying slot run entirely (freeing it back to the
// processor's allocator) and resets the Handle. A no-op if the Handle is
// already unbound.
func (h *Handle) Remove() {
	if !h.Bound() {
		h.Reset()
		return
	}
	h.processor.removeMotivator(h.base)
}

// bind rebinds the Handle to (p, base). Only called by Base, never by user
// code directly, so that the back-pointer table and the Handle's binding
// are always updated together.
func (h *Handle) bind(p processorBinder, base int) {
	h.processor = p
	h.base = base
	h.bound = true
}
