// Package matrix defines the matrix-4x4 processor face: a 4x4 transform
// per slot, composed from an ordered sequence of scalar operations
// (translate-x, rotate-y, scale, ...), plus a concrete "compose" driver
// used as a reference implementation.
package matrix

import "github.com/oxcore/motive/motive"

// OpKind identifies one axis-aligned component of a matrix composition.
type OpKind int

const (
	OpTranslateX OpKind = iota
	OpTranslateY
	OpTranslateZ
	OpRotateX
	OpRotateY
	OpRotateZ
	OpScaleX
	OpScaleY
	OpScaleZ
)

// ScalarSampler is the minimal surface a nested scalar-N processor exposes
// so a matrix Op can sample a child motivator's current value without the
// matrix package depending on a concrete scalar driver. motive/scalar's
// Processor satisfies this.
type ScalarSampler interface {
	Values(base, width int, out []float32)
}

// Op is one element of a matrix composition: either a static Value, or a
// Value driven by a nested scalar-1 Handle (Source, Motivator). When
// Source is non-nil, ChildMotivator1f returns Motivator for this op,
// expressing a dependency edge on that motivator — which is why matrix
// processors must have strictly higher Priority than the scalar
// processors they observe.
type Op struct {
	Kind      OpKind
	Value     float32
	Source    ScalarSampler
	Motivator *motive.Handle
}

// Processor is the matrix-4x4 face.
type Processor interface {
	motive.Processor

	// Value returns the current composed 4x4 matrix (column-major) for the
	// run based at base.
	Value(base int) [16]float32
	// NumChildren returns the number of operations in the composition.
	NumChildren(base int) int
	// ChildValues writes the current scalar value of each operation in
	// [childStart, childStart+count) into out.
	ChildValues(base, childStart, count int, out []float32)
	// ChildMotivator1f returns the nested scalar-1 Handle driving
	// childIndex, or nil if that operation is statically valued.
	ChildMotivator1f(base, childIndex int) *motive.Handle
	// SetChildTarget1f is a no-op unless the derivation's child at
	// childIndex is itself motivator-driven with a settable target.
	SetChildTarget1f(base, childIndex int, targetValue, targetVelocity float32, timeOffset int)
	// SetChildValues overwrites the static value of each operation
	// starting at childStart.
	SetChildValues(base, childStart int, values []float32)
	// BlendToOps smoothly retargets the composition to a new operation
	// sequence over playback.BlendDuration.
	BlendToOps(base int, ops []Op, playback motive.Playback)
	// SetPlaybackRate sets the blend playback rate multiplier.
	SetPlaybackRate(base int, rate float32)
}
