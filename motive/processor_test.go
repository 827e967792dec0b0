package motive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopHooks is the minimal Hooks implementation: a single float32 per slot,
// used to exercise Base in isolation without a real algorithm.
type noopHooks struct {
	values []float32
}

func (h *noopHooks) InitializeIndices(init Init, base, width int) {
	for i := 0; i < width; i++ {
		h.values[base+i] = 0
	}
}
func (h *noopHooks) RemoveIndices(base, width int) {}
func (h *noopHooks) MoveIndices(src, dst, width int) {
	copy(h.values[dst:dst+width], h.values[src:src+width])
}
func (h *noopHooks) SetNumIndices(n int) {
	if n <= len(h.values) {
		h.values = h.values[:n]
		return
	}
	grown := make([]float32, n)
	copy(grown, h.values)
	h.values = grown
}

func newNoopBase(debug bool) (*Base, *noopHooks) {
	hooks := &noopHooks{}
	return NewBase("noop", hooks, debug), hooks
}

func TestBase_InitializeAndVerify(t *testing.T) {
	b, _ := newNoopBase(true)

	var h Handle
	b.InitializeMotivator(Init{Width: 2}, &h)

	assert.True(t, h.Bound())
	assert.Equal(t, 2, h.Dimensions())
	assert.True(t, b.ValidMotivator(h.Base(), &h))
	require.NoError(t, b.VerifyInternalState())
}

func TestBase_RemoveResetsHandle(t *testing.T) {
	b, _ := newNoopBase(true)

	var h Handle
	b.InitializeMotivator(Init{Width: 1}, &h)
	base := h.Base()

	b.RemoveMotivator(base)

	assert.False(t, h.Bound())
	assert.False(t, b.ValidMotivator(base, &h))
}

func TestBase_TransferMotivator(t *testing.T) {
	b, _ := newNoopBase(true)

	var h1, h2 Handle
	b.InitializeMotivator(Init{Width: 1}, &h1)
	base := h1.Base()

	b.TransferMotivator(base, &h2)

	assert.False(t, h1.Bound())
	assert.True(t, h2.Bound())
	assert.Equal(t, base, h2.Base())
}

func TestBase_TransferAndTransferBackRoundTrips(t *testing.T) {
	b, hooks := newNoopBase(true)

	var h1, h2 Handle
	b.InitializeMotivator(Init{Width: 1}, &h1)
	base := h1.Base()
	hooks.values[base] = 42

	b.TransferMotivator(base, &h2)
	b.TransferMotivator(base, &h1)

	assert.True(t, h1.Bound())
	assert.False(t, h2.Bound())
	assert.Equal(t, float32(42), hooks.values[base])
}

func TestBase_FreeOfInteriorSlotPanicsInDebug(t *testing.T) {
	b, _ := newNoopBase(true)

	var h Handle
	b.InitializeMotivator(Init{Width: 3}, &h)

	assert.Panics(t, func() { b.RemoveMotivator(h.Base() + 1) })
}

func TestBase_DoubleInitializePanicsInDebug(t *testing.T) {
	b, _ := newNoopBase(true)

	var h Handle
	b.InitializeMotivator(Init{Width: 1}, &h)

	assert.Panics(t, func() { b.InitializeMotivator(Init{Width: 1}, &h) })
}

// selfRemovingProcessor is a Processor whose AdvanceFrame attempts to
// remove a motivator from within the frame it's advancing — a contract
// violation that must trap in debug mode.
type selfRemovingProcessor struct {
	*Base
	victim int
}

func (p *selfRemovingProcessor) Type() TypeTag                               { return "self-removing" }
func (p *selfRemovingProcessor) Priority() Priority                          { return 0 }
func (p *selfRemovingProcessor) InitializeIndices(init Init, base, width int) {}
func (p *selfRemovingProcessor) RemoveIndices(base, width int)                {}
func (p *selfRemovingProcessor) MoveIndices(src, dst, width int)              {}
func (p *selfRemovingProcessor) SetNumIndices(n int)                          {}

func (p *selfRemovingProcessor) AdvanceFrame(dt float32) {
	p.BeginAdvanceFrame()
	defer p.EndAdvanceFrame()

	// A correctly-behaved processor never calls RemoveMotivator on itself
	// mid-advance; this simulates a buggy one to assert the debug trap.
	p.RemoveMotivator(p.victim)
}

func TestBase_RemoveDuringAdvanceFrameIsContractViolation(t *testing.T) {
	p := &selfRemovingProcessor{}
	p.Base = NewBase("self-removing", p, true)

	var h Handle
	p.InitializeMotivator(Init{Width: 1}, &h)
	p.victim = h.Base()

	assert.Panics(t, func() { p.AdvanceFrame(0) }, "removal from within AdvanceFrame must trap on its first occurrence")
	assert.True(t, p.ValidMotivator(p.victim, &h), "the trapped removal must not have freed the run")
}
