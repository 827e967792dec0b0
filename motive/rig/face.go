// Package rig defines the rig processor face: an articulated skeleton
// driven by a parent table and per-bone matrix-operation animations,
// plus a concrete "skeletal" driver used as a reference implementation.
package rig

import "github.com/oxcore/motive/motive"

// BoneAnim is one bone's matrix composition: an ordered sequence of
// operations keyed by the same OpKind enumeration matrix.Op uses, kept
// independent here so this package has no import-time dependency on
// motive/matrix.
type BoneAnim struct {
	Ops []BoneOp
}

// BoneOp is a single-axis component of a bone's local transform.
type BoneOp struct {
	Kind  BoneOpKind
	Value float32
}

// BoneOpKind identifies one axis-aligned component of a bone transform.
type BoneOpKind int

const (
	BoneTranslateX BoneOpKind = iota
	BoneTranslateY
	BoneTranslateZ
	BoneRotateX
	BoneRotateY
	BoneRotateZ
	BoneScaleX
	BoneScaleY
	BoneScaleZ
)

// RigAnimation is the opaque schema a rig processor drives: a parent table
// (ParentOf[i] is the index of bone i's parent, or -1 for a root bone) plus
// one BoneAnim per bone, both indexed identically and in root-to-bone
// order (every bone's parent has a strictly smaller index).
type RigAnimation struct {
	ParentOf []int
	Bones    []BoneAnim
}

// NumBones returns the number of bones the schema describes.
func (a *RigAnimation) NumBones() int {
	return len(a.Bones)
}

// Processor is the rig face.
type Processor interface {
	motive.Processor

	// GlobalTransforms writes one 4x4 affine transform per bone of the
	// slot's defining animation, in root-to-bone order, into out. Only the
	// first len(out) bones are written when out is shorter than
	// DefiningAnim(base).NumBones().
	GlobalTransforms(base int, out [][16]float32)
	// TimeRemaining returns the time remaining (caller's time units) until
	// the current animation or blend completes, or 0 if already settled.
	TimeRemaining(base int) int
	// DefiningAnim returns the rig animation currently driving base.
	DefiningAnim(base int) *RigAnimation
	// BlendToAnim cross-fades into anim over playback.BlendDuration.
	BlendToAnim(base int, anim *RigAnimation, playback motive.Playback)
	// SetPlaybackRate sets the blend/playback rate multiplier.
	SetPlaybackRate(base int, rate float32)
	// DebugBoneName returns a human-readable label for boneIndex, or the
	// empty string if the driver does not track bone names.
	DebugBoneName(base int, boneIndex int) string
}
