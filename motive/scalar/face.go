// Package scalar defines the scalar-N processor face: the polymorphic
// surface for algorithms driving one or more independent
// scalar values per slot, such as position, rotation, or any time-varying
// float. It also provides "linear", a minimal concrete driver used as a
// reference implementation and by this module's own tests.
package scalar

import "github.com/oxcore/motive/motive"

// Processor is the scalar-N face. All bulk operations are indexed by a
// run's base slot and a width covering a prefix of the run.
//
// A derivation must implement at least one of the Drivers (SetTargets,
// SetTargetWithShape, SetSplines); calling a driver method the derivation
// does not support is a silent no-op so generic client code can probe
// multiple driving styles without special-casing.
type Processor interface {
	motive.Processor

	// Readers.

	// Values writes the current value of each of the width dimensions
	// starting at base into out.
	Values(base, width int, out []float32)
	// Velocities writes the current rate of change of each dimension into out.
	Velocities(base, width int, out []float32)
	// Directions writes each dimension's direction of travel into out.
	// Defaults to Velocities when a derivation has no notion of direction
	// distinct from velocity.
	Directions(base, width int, out []float32)
	// TargetValues writes each dimension's current target value into out.
	TargetValues(base, width int, out []float32)
	// TargetVelocities writes each dimension's target velocity into out.
	TargetVelocities(base, width int, out []float32)
	// Differences writes target minus current value for each dimension.
	Differences(base, width int, out []float32)
	// TargetTime returns the time remaining (in the caller's time units)
	// until the current target is reached.
	TargetTime(base, width int) int
	// SplineTime returns the current playback position in spline-local time.
	SplineTime(base int) float32
	// MotiveShape returns the curve-shape descriptor currently in use.
	MotiveShape(base int) motive.CurveShape

	// Drivers.

	// SetTargets schedules each dimension to the given sequence of
	// waypoints. No-op if the derivation does not support scheduled
	// targets.
	SetTargets(base, width int, targets []motive.Target)
	// SetTargetWithShape targets each dimension to a single (value,
	// velocity) pair using an explicit easing curve shape. No-op if the
	// derivation does not support shaped targets.
	SetTargetWithShape(base, width int, targetValues, targetVelocities []float32, shape motive.CurveShape)
	// SetSplines drives each dimension by a precomputed compact spline.
	// No-op if the derivation does not support spline playback.
	SetSplines(base, width int, splines []motive.CompactSpline, playback motive.Playback)
	// SetSplinesAndTargets drives dimension i by splines[i] if non-nil,
	// else by targets[i].
	SetSplinesAndTargets(base, width int, splines []motive.CompactSpline, targets []motive.Target, playback motive.Playback)

	// Playback control.

	// SetSplineTime repositions spline-driven dimensions to time. No-op on
	// dimensions not currently spline-driven.
	SetSplineTime(base, width int, time float32)
	// SetSplinePlaybackRate sets the playback rate of spline-driven
	// dimensions. No-op on dimensions not currently spline-driven.
	SetSplinePlaybackRate(base, width int, rate float32)
}

// Value returns the single-value (width 1) current value at base.
func Value(p Processor, base int) float32 {
	var out [1]float32
	p.Values(base, 1, out[:])
	return out[0]
}

// Velocity returns the single-value current rate of change at base.
func Velocity(p Processor, base int) float32 {
	var out [1]float32
	p.Velocities(base, 1, out[:])
	return out[0]
}

// Direction returns the single-value direction of travel at base.
func Direction(p Processor, base int) float32 {
	var out [1]float32
	p.Directions(base, 1, out[:])
	return out[0]
}

// TargetValue returns the single-value target at base.
func TargetValue(p Processor, base int) float32 {
	var out [1]float32
	p.TargetValues(base, 1, out[:])
	return out[0]
}

// TargetVelocity returns the single-value target velocity at base.
func TargetVelocity(p Processor, base int) float32 {
	var out [1]float32
	p.TargetVelocities(base, 1, out[:])
	return out[0]
}

// Difference returns the single-value target-minus-current at base.
func Difference(p Processor, base int) float32 {
	var out [1]float32
	p.Differences(base, 1, out[:])
	return out[0]
}
