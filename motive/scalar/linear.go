package scalar

import (
	"github.com/oxcore/motive/motive"
)

// TypeLinear is the TypeTag for the linear scalar driver.
const TypeLinear motive.TypeTag = "scalar.linear"

// LinearTarget is one dimension's initial value plus the waypoint it should
// reach. Init.Payload for TypeLinear is []LinearTarget of length
// Init.Width, one entry per dimension.
type LinearTarget struct {
	Start  float32
	Target motive.Target
}

// linearSlot is the per-slot state for the linear driver.
type linearSlot struct {
	value, velocity             float32
	targetValue, targetVelocity float32
	impliedRate                 float32 // constant rate toward targetValue, precomputed at SetTargets time
	remaining                   float32 // time remaining until targetValue is reached
}

// Linear is a minimal scalar-N driver: each dimension ramps toward its
// target at a constant rate computed from (target-start)/timeOffset, and
// holds once the time budget is exhausted. It exists as a reference
// implementation against which the processor substrate can be exercised —
// real easing/spline math belongs to a richer driver, not this one.
//
// Linear implements SetTargets and SetTargetWithShape; SetSplines and
// spline playback control are no-ops, since this driver never honors a
// spline as a motion source.
type Linear struct {
	*motive.Base

	slots []linearSlot
}

// NewLinear creates an empty Linear processor. debug enables
// contract-violation panics in the embedded Base.
func NewLinear(debug bool) motive.Processor {
	l := &Linear{}
	l.Base = motive.NewBase(TypeLinear, l, debug)
	return l
}

var _ Processor = (*Linear)(nil)

func (l *Linear) Type() motive.TypeTag { return TypeLinear }

// Priority returns 0: scalar processors run first each frame so that
// higher-priority processors (matrix, rig) observing them see fresh
// values.
func (l *Linear) Priority() motive.Priority { return 0 }

func (l *Linear) InitializeIndices(init motive.Init, base, width int) {
	payload, _ := init.Payload.([]LinearTarget)
	for i := 0; i < width; i++ {
		slot := base + i
		var lt LinearTarget
		if i < len(payload) {
			lt = payload[i]
		}
		l.slots[slot] = newLinearSlot(lt)
	}
}

func newLinearSlot(lt LinearTarget) linearSlot {
	s := linearSlot{
		value:          lt.Start,
		targetValue:    lt.Target.Value,
		targetVelocity: lt.Target.Velocity,
		remaining:      float32(lt.Target.TimeOffset),
	}
	if lt.Target.TimeOffset > 0 {
		s.impliedRate = (lt.Target.Value - lt.Start) / float32(lt.Target.TimeOffset)
		s.velocity = s.impliedRate
	}
	return s
}

func (l *Linear) RemoveIndices(base, width int) {
	for i := 0; i < width; i++ {
		l.slots[base+i] = linearSlot{}
	}
}

func (l *Linear) MoveIndices(src, dst, width int) {
	copy(l.slots[dst:dst+width], l.slots[src:src+width])
}

func (l *Linear) SetNumIndices(n int) {
	if n <= len(l.slots) {
		l.slots = l.slots[:n]
		return
	}
	grown := make([]linearSlot, n)
	copy(grown, l.slots)
	l.slots = grown
}

// AdvanceFrame defragments first, then ramps every live slot toward its
// target by dt. On the frame the target is reached the slot takes the
// target value and reports the target velocity; on later frames it holds
// there with zero velocity.
func (l *Linear) AdvanceFrame(dt float32) {
	l.BeginAdvanceFrame()
	defer l.EndAdvanceFrame()

	l.Defragment()
	for i := range l.slots {
		s := &l.slots[i]
		if s.remaining <= 0 {
			s.velocity = 0
			continue
		}
		s.remaining -= dt
		if s.remaining <= 0 {
			s.remaining = 0
			s.value = s.targetValue
			s.velocity = s.targetVelocity
			continue
		}
		s.value += s.impliedRate * dt
	}
}

func (l *Linear) Values(base, width int, out []float32) {
	for i := 0; i < width; i++ {
		out[i] = l.slots[base+i].value
	}
}

func (l *Linear) Velocities(base, width int, out []float32) {
	for i := 0; i < width; i++ {
		out[i] = l.slots[base+i].velocity
	}
}

// Directions defaults to Velocities: the linear driver has no notion of
// direction distinct from velocity.
func (l *Linear) Directions(base, width int, out []float32) {
	l.Velocities(base, width, out)
}

func (l *Linear) TargetValues(base, width int, out []float32) {
	for i := 0; i < width; i++ {
		out[i] = l.slots[base+i].targetValue
	}
}

func (l *Linear) TargetVelocities(base, width int, out []float32) {
	for i := 0; i < width; i++ {
		out[i] = l.slots[base+i].targetVelocity
	}
}

func (l *Linear) Differences(base, width int, out []float32) {
	for i := 0; i < width; i++ {
		s := l.slots[base+i]
		out[i] = s.targetValue - s.value
	}
}

// TargetTime returns the remaining time of the slowest-remaining dimension
// in [base, base+width).
func (l *Linear) TargetTime(base, width int) int {
	slowest := 0
	for i := 0; i < width; i++ {
		if r := int(l.slots[base+i].remaining); r > slowest {
			slowest = r
		}
	}
	return slowest
}

// SplineTime always returns 0: Linear never drives by spline.
func (l *Linear) SplineTime(base int) float32 { return 0 }

// MotiveShape returns the zero-value CurveShape: Linear does not use
// shaped easing curves.
func (l *Linear) MotiveShape(base int) motive.CurveShape { return motive.CurveShape{} }

// SetTargets re-targets each dimension to the given waypoint, recomputing
// its implied constant rate from the dimension's current value.
func (l *Linear) SetTargets(base, width int, targets []motive.Target) {
	for i := 0; i < width && i < len(targets); i++ {
		slot := base + i
		l.slots[slot] = newLinearSlot(LinearTarget{Start: l.slots[slot].value, Target: targets[i]})
	}
}

// SetTargetWithShape re-targets each dimension to a single value/velocity
// pair. The shape parameter is accepted for interface conformance but
// ignored: Linear always ramps at a constant rate regardless of requested
// easing shape.
func (l *Linear) SetTargetWithShape(base, width int, targetValues, targetVelocities []float32, shape motive.CurveShape) {
	for i := 0; i < width; i++ {
		var tv, tvel float32
		if i < len(targetValues) {
			tv = targetValues[i]
		}
		if i < len(targetVelocities) {
			tvel = targetVelocities[i]
		}
		slot := base + i
		target := motive.Target{Value: tv, Velocity: tvel, TimeOffset: int(l.slots[slot].remaining)}
		if target.TimeOffset <= 0 {
			target.TimeOffset = 1
		}
		l.slots[slot] = newLinearSlot(LinearTarget{Start: l.slots[slot].value, Target: target})
	}
}

// SetSplines is a no-op: Linear does not support spline playback.
func (l *Linear) SetSplines(base, width int, splines []motive.CompactSpline, playback motive.Playback) {
}

// SetSplinesAndTargets delegates to SetTargets: since Linear never treats
// a spline as non-nil-and-honored, every dimension falls through to its
// target.
func (l *Linear) SetSplinesAndTargets(base, width int, splines []motive.CompactSpline, targets []motive.Target, playback motive.Playback) {
	l.SetTargets(base, width, targets)
}

// SetSplineTime is a no-op: Linear has no spline-local time to reposition.
func (l *Linear) SetSplineTime(base, width int, time float32) {}

// SetSplinePlaybackRate is a no-op: Linear has no spline playback rate.
func (l *Linear) SetSplinePlaybackRate(base, width int, rate float32) {}
