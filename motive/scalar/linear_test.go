package scalar_test

import (
	"testing"

	"github.com/oxcore/motive/motive"
	"github.com/oxcore/motive/motive/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() motive.Engine {
	e := motive.NewEngine(motive.WithDebug(true))
	e.RegisterFactory(scalar.TypeLinear, scalar.NewLinear)
	return e
}

// TestLinear_BasicScalar checks that a "linear" scalar-1 processor ramping
// from 0 to 10 over 10 time units reaches 5 after 5 ticks of dt=1, with 5
// time units remaining.
func TestLinear_BasicScalar(t *testing.T) {
	e := newTestEngine()

	var h motive.Handle
	err := e.InitializeMotivator(motive.Init{
		Type:  scalar.TypeLinear,
		Width: 1,
		Payload: []scalar.LinearTarget{
			{Start: 0, Target: motive.Target{Value: 10, TimeOffset: 10}},
		},
	}, &h)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		e.AdvanceFrame(1)
	}

	p := e.Processor(scalar.TypeLinear).(scalar.Processor)
	assert.InDelta(t, 5.0, scalar.Value(p, h.Base()), 1e-6)
	assert.Equal(t, 5, p.TargetTime(h.Base(), 1))
}

// TestLinear_AdvanceFrameZeroIsNoOp checks that advancing by a zero time
// delta leaves every slot's value unchanged.
func TestLinear_AdvanceFrameZeroIsNoOp(t *testing.T) {
	e := newTestEngine()

	var h motive.Handle
	require.NoError(t, e.InitializeMotivator(motive.Init{
		Type:  scalar.TypeLinear,
		Width: 1,
		Payload: []scalar.LinearTarget{
			{Start: 2, Target: motive.Target{Value: 10, TimeOffset: 10}},
		},
	}, &h))

	p := e.Processor(scalar.TypeLinear).(scalar.Processor)
	before := scalar.Value(p, h.Base())
	e.AdvanceFrame(0)
	assert.Equal(t, before, scalar.Value(p, h.Base()))
}

// TestLinear_UnsupportedDriverIsNoOp checks that calling SetSplines on a
// driver that only really implements targets leaves Values and TargetTime
// unaffected, with no panic.
func TestLinear_UnsupportedDriverIsNoOp(t *testing.T) {
	e := newTestEngine()

	var h motive.Handle
	require.NoError(t, e.InitializeMotivator(motive.Init{
		Type:  scalar.TypeLinear,
		Width: 1,
		Payload: []scalar.LinearTarget{
			{Start: 0, Target: motive.Target{Value: 4, TimeOffset: 4}},
		},
	}, &h))

	p := e.Processor(scalar.TypeLinear).(scalar.Processor)
	before := scalar.Value(p, h.Base())
	beforeTime := p.TargetTime(h.Base(), 1)

	assert.NotPanics(t, func() {
		p.SetSplines(h.Base(), 1, []motive.CompactSpline{nil}, motive.Playback{})
	})

	assert.Equal(t, before, scalar.Value(p, h.Base()))
	assert.Equal(t, beforeTime, p.TargetTime(h.Base(), 1))
}

// TestLinear_DefragmentPreservesValues checks that after removing a middle
// run and defragmenting, the surviving handle's per-slot values are
// preserved across relocation and the handle is rebound.
func TestLinear_DefragmentPreservesValues(t *testing.T) {
	e := newTestEngine()

	mk := func(values [3]float32) *motive.Handle {
		h := &motive.Handle{}
		payload := make([]scalar.LinearTarget, 3)
		for i, v := range values {
			payload[i] = scalar.LinearTarget{Start: v, Target: motive.Target{Value: v, TimeOffset: 0}}
		}
		require.NoError(t, e.InitializeMotivator(motive.Init{Type: scalar.TypeLinear, Width: 3, Payload: payload}, h))
		return h
	}

	h1 := mk([3]float32{1, 2, 3})
	h2 := mk([3]float32{4, 5, 6})
	h3 := mk([3]float32{7, 8, 9})

	h2.Remove()

	p := e.Processor(scalar.TypeLinear).(scalar.Processor)
	base, ok := p.(*scalar.Linear)
	require.True(t, ok)
	base.Defragment()

	assert.Equal(t, 0, h1.Base())
	assert.Equal(t, 3, h3.Base(), "h3 relocated to h2's old base")

	out := make([]float32, 3)
	p.Values(h3.Base(), 3, out)
	assert.Equal(t, []float32{7, 8, 9}, out)

	require.NoError(t, e.VerifyInternalState())
}

// TestLinear_HandleTransfer checks that transferring a motivator to a new
// handle preserves its per-slot state and rebinds the new handle in place.
func TestLinear_HandleTransfer(t *testing.T) {
	e := newTestEngine()

	var h1, h2 motive.Handle
	require.NoError(t, e.InitializeMotivator(motive.Init{
		Type:  scalar.TypeLinear,
		Width: 1,
		Payload: []scalar.LinearTarget{
			{Start: 3, Target: motive.Target{Value: 3, TimeOffset: 0}},
		},
	}, &h1))

	p := e.Processor(scalar.TypeLinear).(*scalar.Linear)
	p.TransferMotivator(h1.Base(), &h2)

	assert.False(t, h1.Bound())
	assert.True(t, h2.Bound())
	assert.InDelta(t, 3.0, scalar.Value(p, h2.Base()), 1e-6)
}
