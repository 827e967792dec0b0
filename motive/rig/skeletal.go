package rig

import (
	"fmt"

	"github.com/oxcore/motive/common"
	"github.com/oxcore/motive/motive"
)

// TypeSkeletal is the TypeTag for the Skeletal rig driver.
const TypeSkeletal motive.TypeTag = "rig.skeletal"

// skeletalSlot is the per-slot playback state for the Skeletal driver,
// modeled on a CPU-side instance playback record: current animation, a
// cross-fade target, and the timers driving the blend.
type skeletalSlot struct {
	anim *RigAnimation

	blending      bool
	blendFrom     *RigAnimation
	blendDuration float32
	blendElapsed  float32
	blendRemain   float32

	playbackRate float32

	globals []float32 // flattened [16]float32 per bone, root-to-bone order
}

// Skeletal is a minimal rig driver: each slot holds a defining
// RigAnimation, composes every bone's local transform from its BoneAnim
// ops, and accumulates global transforms by walking the parent table in
// index order (every parent precedes its children). BlendToAnim linearly
// interpolates the flattened global-transform arrays of the old and new
// animations over the blend window — real skeletal blending decomposes
// into translation/quaternion/scale components before interpolating;
// this driver exists as a reference implementation against which the
// processor substrate can be exercised.
type Skeletal struct {
	*motive.Base

	slots []skeletalSlot
}

// NewSkeletal creates an empty Skeletal processor.
func NewSkeletal(debug bool) motive.Processor {
	s := &Skeletal{}
	s.Base = motive.NewBase(TypeSkeletal, s, debug)
	return s
}

var _ Processor = (*Skeletal)(nil)

func (s *Skeletal) Type() motive.TypeTag { return TypeSkeletal }

// Priority returns 2: strictly higher than matrix processors (priority 1),
// since a rig's bone transforms may in principle observe matrix-composed
// outputs the way a matrix composition observes scalar outputs.
func (s *Skeletal) Priority() motive.Priority { return 2 }

func (s *Skeletal) InitializeIndices(init motive.Init, base, width int) {
	anim, _ := init.Payload.(*RigAnimation)
	for i := 0; i < width; i++ {
		slot := &s.slots[base+i]
		*slot = skeletalSlot{anim: anim, playbackRate: 1}
		slot.globals = make([]float32, anim.NumBones()*16)
		recomputeGlobals(anim, slot.globals)
	}
}

func (s *Skeletal) RemoveIndices(base, width int) {
	for i := 0; i < width; i++ {
		s.slots[base+i] = skeletalSlot{}
	}
}

func (s *Skeletal) MoveIndices(src, dst, width int) {
	copy(s.slots[dst:dst+width], s.slots[src:src+width])
}

func (s *Skeletal) SetNumIndices(n int) {
	if n <= len(s.slots) {
		s.slots = s.slots[:n]
		return
	}
	grown := make([]skeletalSlot, n)
	copy(grown, s.slots)
	for i := len(s.slots); i < n; i++ {
		grown[i].playbackRate = 1
	}
	s.slots = grown
}

// AdvanceFrame defragments, then recomposes every live slot's global
// transforms, cross-fading toward the new animation's globals while a
// blend is in progress.
func (s *Skeletal) AdvanceFrame(dt float32) {
	s.BeginAdvanceFrame()
	defer s.EndAdvanceFrame()

	s.Defragment()
	for i := range s.slots {
		slot := &s.slots[i]
		if slot.anim == nil {
			continue
		}

		target := make([]float32, slot.anim.NumBones()*16)
		recomputeGlobals(slot.anim, target)

		if !slot.blending {
			slot.globals = target
			continue
		}

		slot.blendElapsed += dt * slot.playbackRate
		t := float32(1)
		if slot.blendDuration > 0 {
			t = common.Clamp01(slot.blendElapsed / slot.blendDuration)
		}
		slot.blendRemain = slot.blendDuration - slot.blendElapsed
		if slot.blendRemain < 0 {
			slot.blendRemain = 0
		}

		fromGlobals := make([]float32, slot.anim.NumBones()*16)
		recomputeGlobals(slot.blendFrom, fromGlobals)

		blended := make([]float32, len(target))
		for j := range blended {
			var from float32
			if j < len(fromGlobals) {
				from = fromGlobals[j]
			}
			blended[j] = common.Lerp(from, target[j], t)
		}
		slot.globals = blended

		if t >= 1 {
			slot.blending = false
		}
	}
}

// recomputeGlobals composes every bone's local transform from its BoneAnim
// ops, then walks the parent table in index order — valid because every
// bone's parent index is guaranteed smaller than its own — multiplying
// each bone's global transform by its parent's.
func recomputeGlobals(anim *RigAnimation, out []float32) {
	n := anim.NumBones()
	locals := make([][16]float32, n)
	for i, b := range anim.Bones {
		composeLocal(b, locals[i][:])
	}

	for i := 0; i < n; i++ {
		parent := anim.ParentOf[i]
		if parent < 0 {
			copy(out[i*16:i*16+16], locals[i][:])
			continue
		}
		var global [16]float32
		common.Mul4(global[:], out[parent*16:parent*16+16], locals[i][:])
		copy(out[i*16:i*16+16], global[:])
	}
}

func composeLocal(anim BoneAnim, out []float32) {
	common.Identity(out)
	for _, op := range anim.Ops {
		var m [16]float32
		switch op.Kind {
		case BoneTranslateX:
			common.BuildModelMatrix(m[:], op.Value, 0, 0, 0, 0, 0, 1, 1, 1)
		case BoneTranslateY:
			common.BuildModelMatrix(m[:], 0, op.Value, 0, 0, 0, 0, 1, 1, 1)
		case BoneTranslateZ:
			common.BuildModelMatrix(m[:], 0, 0, op.Value, 0, 0, 0, 1, 1, 1)
		case BoneRotateX:
			common.BuildModelMatrix(m[:], 0, 0, 0, op.Value, 0, 0, 1, 1, 1)
		case BoneRotateY:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, op.Value, 0, 1, 1, 1)
		case BoneRotateZ:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, op.Value, 1, 1, 1)
		case BoneScaleX:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, op.Value, 1, 1)
		case BoneScaleY:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, 1, op.Value, 1)
		case BoneScaleZ:
			common.BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, 1, 1, op.Value)
		default:
			common.Identity(m[:])
		}
		var next [16]float32
		common.Mul4(next[:], out, m[:])
		copy(out, next[:])
	}
}

func (s *Skeletal) GlobalTransforms(base int, out [][16]float32) {
	slot := s.slots[base]
	n := slot.anim.NumBones()
	for i := 0; i < n && i < len(out); i++ {
		copy(out[i][:], slot.globals[i*16:i*16+16])
	}
}

func (s *Skeletal) TimeRemaining(base int) int {
	slot := s.slots[base]
	if !slot.blending {
		return 0
	}
	return int(slot.blendRemain)
}

func (s *Skeletal) DefiningAnim(base int) *RigAnimation {
	return s.slots[base].anim
}

// BlendToAnim begins a cross-fade from the slot's currently-defining
// animation to anim over playback.BlendDuration. A non-positive
// BlendDuration snaps immediately to anim.
func (s *Skeletal) BlendToAnim(base int, anim *RigAnimation, playback motive.Playback) {
	slot := &s.slots[base]
	from := slot.anim
	slot.anim = anim

	if playback.BlendDuration <= 0 {
		slot.blending = false
		target := make([]float32, anim.NumBones()*16)
		recomputeGlobals(anim, target)
		slot.globals = target
		return
	}

	slot.blending = true
	slot.blendFrom = from
	slot.blendDuration = playback.BlendDuration
	slot.blendElapsed = 0
	slot.blendRemain = playback.BlendDuration
	slot.playbackRate = common.Coalesce(playback.Rate, slot.playbackRate)
}

func (s *Skeletal) SetPlaybackRate(base int, rate float32) {
	s.slots[base].playbackRate = rate
}

// DebugBoneName returns a generic positional label; this driver does not
// retain bone name strings from the defining animation's schema.
func (s *Skeletal) DebugBoneName(base int, boneIndex int) string {
	slot := s.slots[base]
	if slot.anim == nil || boneIndex < 0 || boneIndex >= slot.anim.NumBones() {
		return ""
	}
	return fmt.Sprintf("bone[%d]", boneIndex)
}
