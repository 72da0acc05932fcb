package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// --- Transform Types ---

// Transform represents a decomposed local transform used for animation interpolation.
type Transform struct {
	// Translation is the position offset.
	Translation mgl32.Vec3

	// Rotation is the orientation as a unit quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a Transform with no translation, no rotation, and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// --- Keyframe Types ---

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in clip ticks.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value mgl32.Vec3
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in clip ticks.
	Time float32

	// Value is the rotation at this keyframe.
	Value mgl32.Quat
}

// --- Import Types ---

// NodeSpec is one node of an imported hierarchy before it is flattened into a skeleton.
type NodeSpec struct {
	// Name identifies the node. Names must be unique within one hierarchy.
	Name string

	// Transform is the bind-pose transform relative to the parent node.
	Transform mgl32.Mat4

	// Children are the owned child nodes in authoring order.
	Children []NodeSpec
}

// ChannelSpec holds the keyframe tracks authored for a single node.
// An empty track means the node keeps its bind-pose value for that component.
type ChannelSpec struct {
	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation.
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// Empty reports whether the channel carries no keyframes at all.
func (c ChannelSpec) Empty() bool {
	return len(c.PositionKeys) == 0 && len(c.RotationKeys) == 0 && len(c.ScaleKeys) == 0
}

// MaxTime returns the latest keyframe timestamp across all tracks of the channel.
func (c ChannelSpec) MaxTime() float32 {
	var latest float32
	for _, k := range c.PositionKeys {
		latest = max(latest, k.Time)
	}
	for _, k := range c.RotationKeys {
		latest = max(latest, k.Time)
	}
	for _, k := range c.ScaleKeys {
		latest = max(latest, k.Time)
	}
	return latest
}

// ClipSpec is an imported animation clip.
type ClipSpec struct {
	// Name is the clip identifier (walk, idle, etc.).
	Name string

	// Duration is the clip length in ticks. Zero means derive it from the latest keyframe.
	Duration float32

	// TicksPerSecond converts seconds to clip ticks. Zero means keys are already in seconds.
	TicksPerSecond float32

	// Channels maps node names to their keyframe tracks.
	Channels map[string]ChannelSpec
}

// Rig is the output of an import: one node hierarchy, its bone offsets, and the clips authored for it.
type Rig struct {
	// Name is the rig identifier, usually the source file name.
	Name string

	// Root is the top of the node hierarchy.
	Root NodeSpec

	// BoneOrder optionally fixes bone indices: BoneOrder[i] is the node name assigned bone index i.
	// When empty, bones are numbered in depth-first pre-order over nodes that have an offset.
	BoneOrder []string

	// BoneOffsets maps bone names to their inverse-bind matrices.
	BoneOffsets map[string]mgl32.Mat4

	// Clips are the animation clips authored against this hierarchy.
	Clips []ClipSpec
}

// Clip returns the clip spec with the given name.
//
// Parameters:
//   - name: the clip name to look up
//
// Returns:
//   - ClipSpec: the matching clip
//   - bool: false if no clip has that name
func (r *Rig) Clip(name string) (ClipSpec, bool) {
	for _, c := range r.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return ClipSpec{}, false
}
