// Package rigs builds small procedural rigs for the demo and for tests that need a real hierarchy
// without an asset on disk.
package rigs

import (
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// Arm bone names, in bone-index order.
const (
	Shoulder = "shoulder"
	Elbow    = "elbow"
	Wrist    = "wrist"
)

// ArmRoot is the name of the non-bone root node of the arm.
const ArmRoot = "armature"

// ArmTip is a non-bone leaf under the wrist.
const ArmTip = "tip"

// Arm clip names.
const (
	IdleClip = "idle"
	WaveClip = "wave"
)

const segment = float32(1)

// Arm returns a three-bone chain standing along +Y with two clips:
//   - "idle": 2 ticks at 1 tick/s, the elbow sways about Z and returns.
//   - "wave": 24 ticks at 24 ticks/s, shoulder and wrist swing and return.
func Arm() *model.Rig {
	tip := model.NodeSpec{Name: ArmTip, Transform: mgl32.Translate3D(0, segment/2, 0)}
	wrist := model.NodeSpec{Name: Wrist, Transform: mgl32.Translate3D(0, segment, 0), Children: []model.NodeSpec{tip}}
	elbow := model.NodeSpec{Name: Elbow, Transform: mgl32.Translate3D(0, segment, 0), Children: []model.NodeSpec{wrist}}
	shoulder := model.NodeSpec{Name: Shoulder, Transform: mgl32.Translate3D(0, segment, 0), Children: []model.NodeSpec{elbow}}
	root := model.NodeSpec{Name: ArmRoot, Transform: mgl32.Ident4(), Children: []model.NodeSpec{shoulder}}

	return &model.Rig{
		Name:      "arm",
		Root:      root,
		BoneOrder: []string{Shoulder, Elbow, Wrist},
		BoneOffsets: map[string]mgl32.Mat4{
			Shoulder: mgl32.Translate3D(0, -1*segment, 0),
			Elbow:    mgl32.Translate3D(0, -2*segment, 0),
			Wrist:    mgl32.Translate3D(0, -3*segment, 0),
		},
		Clips: []model.ClipSpec{armIdle(), armWave()},
	}
}

func armIdle() model.ClipSpec {
	z := mgl32.Vec3{0, 0, 1}
	return model.ClipSpec{
		Name:           IdleClip,
		Duration:       2,
		TicksPerSecond: 1,
		Channels: map[string]model.ChannelSpec{
			Shoulder: {
				PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{0, segment, 0}}},
			},
			Elbow: {
				RotationKeys: []model.QuaternionKeyframe{
					{Time: 0, Value: mgl32.QuatIdent()},
					{Time: 1, Value: mgl32.QuatRotate(0.2, z)},
					{Time: 2, Value: mgl32.QuatIdent()},
				},
			},
		},
	}
}

func armWave() model.ClipSpec {
	z := mgl32.Vec3{0, 0, 1}
	x := mgl32.Vec3{1, 0, 0}
	return model.ClipSpec{
		Name:           WaveClip,
		Duration:       24,
		TicksPerSecond: 24,
		Channels: map[string]model.ChannelSpec{
			Shoulder: {
				RotationKeys: []model.QuaternionKeyframe{
					{Time: 0, Value: mgl32.QuatIdent()},
					{Time: 12, Value: mgl32.QuatRotate(0.8, z)},
					{Time: 24, Value: mgl32.QuatIdent()},
				},
			},
			Wrist: {
				RotationKeys: []model.QuaternionKeyframe{
					{Time: 0, Value: mgl32.QuatIdent()},
					{Time: 12, Value: mgl32.QuatRotate(0.5, x)},
					{Time: 24, Value: mgl32.QuatIdent()},
				},
				ScaleKeys: []model.VectorKeyframe{
					{Time: 0, Value: mgl32.Vec3{1, 1, 1}},
					{Time: 24, Value: mgl32.Vec3{1.2, 1.2, 1.2}},
				},
			},
		},
	}
}
