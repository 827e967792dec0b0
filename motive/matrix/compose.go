package matrix

import (
	"github.com/oxcore/motive/common"
	"github.com/oxcore/motive/motive"
)

// TypeCompose is the TypeTag for the Compose matrix driver.
const TypeCompose motive.TypeTag = "matrix.compose"

// composeSlot is the per-slot state for the Compose driver.
type composeSlot struct {
	ops     []Op
	current [16]float32

	blending      bool
	blendFrom     [16]float32
	blendDuration float32
	blendElapsed  float32

	playbackRate float32
}

// Compose is a minimal matrix-4x4 driver: it composes a 4x4 transform each
// frame from an ordered sequence of single-axis Ops (translate/rotate/scale
// per axis), cross-fading the full composed matrix when BlendToOps is
// called. It exists as a reference implementation against which the
// processor substrate can be exercised — production-grade blending between
// differing op sequences belongs to a richer driver, not this one.
type Compose struct {
	*motive.Base

	slots []composeSlot
}

// NewCompose creates an empty Compose processor.
func NewCompose(debug bool) motive.Processor {
	c := &Compose{}
	c.Base = motive.NewBase(TypeCompose, c, debug)
	return c
}

var _ Processor = (*Compose)(nil)

func (c *Compose) Type() motive.TypeTag { return TypeCompose }

// Priority returns 1: strictly higher than scalar processors (priority 0),
// so any scalar motivator a composition samples via ChildMotivator1f has
// already advanced this frame.
func (c *Compose) Priority() motive.Priority { return 1 }

func (c *Compose) InitializeIndices(init motive.Init, base, width int) {
	ops, _ := init.Payload.([]Op)
	for i := 0; i < width; i++ {
		slot := &c.slots[base+i]
		*slot = composeSlot{ops: ops, playbackRate: 1}
		common.Identity(slot.current[:])
		recompose(slot)
	}
}

func (c *Compose) RemoveIndices(base, width int) {
	for i := 0; i < width; i++ {
		c.slots[base+i] = composeSlot{}
	}
}

func (c *Compose) MoveIndices(src, dst, width int) {
	copy(c.slots[dst:dst+width], c.slots[src:src+width])
}

func (c *Compose) SetNumIndices(n int) {
	if n <= len(c.slots) {
		c.slots = c.slots[:n]
		return
	}
	grown := make([]composeSlot, n)
	copy(grown, c.slots)
	for i := len(c.slots); i < n; i++ {
		common.Identity(grown[i].current[:])
		grown[i].playbackRate = 1
	}
	c.slots = grown
}

// AdvanceFrame defragments, then recomposes every live slot's matrix from
// its current op values, cross-fading from blendFrom while a blend is in
// progress.
func (c *Compose) AdvanceFrame(dt float32) {
	c.BeginAdvanceFrame()
	defer c.EndAdvanceFrame()

	c.Defragment()
	for i := range c.slots {
		s := &c.slots[i]
		if s.blending {
			s.blendElapsed += dt * s.playbackRate
			recompose(s)
			t := common.Clamp01(s.blendElapsed / s.blendDuration)
			var blended [16]float32
			for j := range blended {
				blended[j] = common.Lerp(s.blendFrom[j], s.current[j], t)
			}
			s.current = blended
			if t >= 1 {
				s.blending = false
			}
		} else {
			recompose(s)
		}
	}
}

// recompose rebuilds slot.current from slot.ops, sampling any
// motivator-driven op from its Source each call.
func recompose(slot *composeSlot) {
	var acc [16]float32
	common.Identity(acc[:])

	for _, op := range slot.ops {
		v := opValue(op)
		var m [16]float32
		switch op.Kind {
		case OpTranslateX:
			common.BuildModelMatrix(m[:], v, 0, 0, 0, 0, 0, 1, 1, 1)
		case OpTranslateY:
			common.BuildModelMatrix(m[:], 0, v, 0, 0, 0, 0, 1, 1, 1)
		case OpTranslateZ:
			common.BuildModelMatrix(m[:], 0, 0, v, 0, 0, 0, 1, 1, 1)
		case OpRotateX:
			common.BuildModelMatrix(m[:], 0, 0, 0, v, 0, 0, 1, 1, 1)
		case OpRotateY:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, v, 0, 1, 1, 1)
		case OpRotateZ:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, v, 1, 1, 1)
		case OpScaleX:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, v, 1, 1)
		case OpScaleY:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, 1, v, 1)
		case OpScaleZ:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, 1, 1, v)
		default:
			common.Identity(m[:])
		}
		var next [16]float32
		common.Mul4(next[:], acc[:], m[:])
		acc = next
	}

	slot.current = acc
}

// opValue returns op's current scalar value: its static Value, or the
// current value sampled from its nested scalar motivator.
func opValue(op Op) float32 {
	if op.Source == nil || op.Motivator == nil {
		return op.Value
	}
	var out [1]float32
	op.Source.Values(op.Motivator.Base(), 1, out[:])
	return out[0]
}

func (c *Compose) Value(base int) [16]float32 {
	return c.slots[base].current
}

func (c *Compose) NumChildren(base int) int {
	return len(c.slots[base].ops)
}

func (c *Compose) ChildValues(base, childStart, count int, out []float32) {
	ops := c.slots[base].ops
	for i := 0; i < count; i++ {
		idx := childStart + i
		if idx < 0 || idx >= len(ops) {
			out[i] = 0
			continue
		}
		out[i] = opValue(ops[idx])
	}
}

func (c *Compose) ChildMotivator1f(base, childIndex int) *motive.Handle {
	ops := c.slots[base].ops
	if childIndex < 0 || childIndex >= len(ops) {
		return nil
	}
	return ops[childIndex].Motivator
}

// SetChildTarget1f is a no-op: Compose's children are either static values
// or nested motivators the caller drives directly through that
// motivator's own processor.
func (c *Compose) SetChildTarget1f(base, childIndex int, targetValue, targetVelocity float32, timeOffset int) {
}

func (c *Compose) SetChildValues(base, childStart int, values []float32) {
	ops := c.slots[base].ops
	for i, v := range values {
		idx := childStart + i
		if idx < 0 || idx >= len(ops) {
			continue
		}
		ops[idx].Value = v
		ops[idx].Source = nil
		ops[idx].Motivator = nil
	}
}

// BlendToOps replaces the composition with ops and begins a cross-fade
// from the currently-composed matrix over playback.BlendDuration. A
// non-positive BlendDuration snaps immediately to the new composition.
func (c *Compose) BlendToOps(base int, ops []Op, playback motive.Playback) {
	slot := &c.slots[base]
	from := slot.current

	slot.ops = ops
	recompose(slot)

	if playback.BlendDuration <= 0 {
		slot.blending = false
		return
	}

	slot.blending = true
	slot.blendFrom = from
	slot.blendDuration = playback.BlendDuration
	slot.blendElapsed = 0
	slot.playbackRate = common.Coalesce(playback.Rate, slot.playbackRate)
}

func (c *Compose) SetPlaybackRate(base int, rate float32) {
	c.slots[base].playbackRate = rate
}
