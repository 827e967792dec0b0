// Package motive implements the processor substrate of an animation
// motivator engine: the contract between a stable external Handle and a
// relocatable internal slot, the priority-ordered Engine scheduler, and the
// registry that binds a type-tag to a Processor factory.
//
// The individual easing/spline algorithms, FlatBuffer asset loading, and
// the core math library are external collaborators; this package consumes
// already-decoded values from them but does not define them.
package motive

// TypeTag identifies a kind of Processor. A Handle's Init descriptor names
// the TypeTag it belongs to; the Engine uses it to find or lazily create the
// owning Processor.
type TypeTag string

// Priority orders Processors within one Engine frame. Lower priorities run
// first, so a higher-priority Processor (e.g. one driving matrices) can
// safely sample a lower-priority Processor's freshly advanced output (e.g.
// scalars) in the same tick. Fixed per Processor at registration.
type Priority int

// Init is the descriptor carried into InitializeMotivator. Type selects the
// Processor; Payload is algorithm-specific and is type-asserted by the
// Processor's InitializeIndices hook. Width is the slot run's dimension
// count, fixed for the run's lifetime.
type Init struct {
	Type    TypeTag
	Width   int
	Payload any
}

// CurveShape describes an easing curve family and parameters well enough
// for a driver to pick and configure an interpolation: a typical time and
// distance the value travels under normal conditions, plus a bias knob for
// ease-in/ease-out skew. The concrete easing math is an external
// collaborator; this is just the shape the core passes through.
type CurveShape struct {
	TypicalTotalTime float32
	TypicalDistance  float32
	Bias             float32
}

// Target is one waypoint for a scalar dimension: reach Value with Velocity
// after TimeOffset has elapsed from the previous waypoint (or from now, for
// the first waypoint in a sequence).
type Target struct {
	Value, Velocity float32
	TimeOffset      int
}

// Playback describes how a spline or animation should be played back:
// starting position in its own local time, a rate multiplier, whether it
// loops, and how long to cross-blend from whatever was playing before.
type Playback struct {
	StartTime     float32
	Rate          float32
	Loop          bool
	BlendDuration float32
}

// CompactSpline is an opaque, externally defined, sampleable curve over
// spline-local time. The spline sampling algorithm itself lives outside
// this package; a driver only needs to hold a reference to one and query
// it.
type CompactSpline interface {
	// Evaluate returns the spline's value and derivative at spline-local
	// time t.
	Evaluate(t float32) (value, velocity float32)
	// EndTime returns the spline's total duration in its own local time.
	EndTime() float32
}
