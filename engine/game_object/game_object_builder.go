package game_object

import (
	"github.com/Carmen-Shannon/oxy-skeletal/engine/renderer/animator"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the label of the GameObject.
//
// Parameters:
//   - name: the label
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithOrientation sets the initial Euler rotation of the GameObject.
//
// Parameters:
//   - rx: the x rotation angle
//   - ry: the y rotation angle
//   - rz: the z rotation angle
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial orientation
func WithOrientation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.orientation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithCenter sets the local point that rotation and scale pivot about.
//
// Parameters:
//   - cx: the x coordinate
//   - cy: the y coordinate
//   - cz: the z coordinate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation center
func WithCenter(cx, cy, cz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.center = mgl32.Vec3{cx, cy, cz}
	}
}

// WithBaseTransform sets the transform applied before the object's own transform.
//
// Parameters:
//   - m: the base transform
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the base transform
func WithBaseTransform(m mgl32.Mat4) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.baseTransform = m
	}
}

// WithAnimator attaches a skeletal animator to the GameObject.
//
// Parameters:
//   - anim: the animator driving this object's skin
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the animator
func WithAnimator(anim animator.SkeletalAnimator) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.animator = anim
	}
}

// WithChildren attaches child nodes to the GameObject.
//
// Parameters:
//   - children: the nodes to attach, in order
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the children
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.children = append(obj.children, children...)
	}
}
