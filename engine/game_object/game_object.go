package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/sequencer"
	"github.com/go-gl/mathgl/mgl32"
)

// localForward is the facing direction of an unrotated object.
var localForward = mgl32.Vec3{0, 0, 1}

type gameObject struct {
	id            uint64
	name          string
	enabled       atomic.Bool
	position      mgl32.Vec3
	orientation   mgl32.Vec3
	scale         mgl32.Vec3
	center        mgl32.Vec3
	baseTransform mgl32.Mat4
	animator      animator.SkeletalAnimator
	children      []GameObject

	model mgl32.Mat4
	dirty bool
}

// GameObject defines the interface for a scene-graph node.
//
// Each node owns a transform made of a position, Euler orientation, per-axis scale, a rotation
// center, and a fixed base transform applied first (typically an authoring-space correction).
// Its model matrix is
//
//	T(position) * T(center * scale) * Rz * Rx * Ry * S(scale) * T(-center) * base
//
// and is rebuilt lazily after any transform change. Children are positioned relative to their parent.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the object's label.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the object's translation relative to its parent.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition replaces the object's translation.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Orientation returns the Euler rotation in radians about X, Y, and Z.
	//
	// Returns:
	//   - mgl32.Vec3: the orientation
	Orientation() mgl32.Vec3

	// SetOrientation replaces the Euler rotation.
	//
	// Parameters:
	//   - o: the new orientation in radians
	SetOrientation(o mgl32.Vec3)

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetScale replaces the per-axis scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)

	// Center returns the point, in the object's local space, that rotation and scale pivot about.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation center
	Center() mgl32.Vec3

	// SetCenter replaces the rotation center.
	//
	// Parameters:
	//   - c: the new center
	SetCenter(c mgl32.Vec3)

	// BaseTransform returns the transform applied before everything else.
	//
	// Returns:
	//   - mgl32.Mat4: the base transform
	BaseTransform() mgl32.Mat4

	// SetBaseTransform replaces the base transform.
	//
	// Parameters:
	//   - m: the new base transform
	SetBaseTransform(m mgl32.Mat4)

	// Move offsets the position.
	//
	// Parameters:
	//   - offset: the translation to add
	Move(offset mgl32.Vec3)

	// Rotate adds Euler angles to the orientation.
	//
	// Parameters:
	//   - delta: the angles to add in radians
	Rotate(delta mgl32.Vec3)

	// Grow multiplies the scale per axis.
	//
	// Parameters:
	//   - factor: the per-axis multiplier
	Grow(factor mgl32.Vec3)

	// Forward returns the unit direction the object faces, +Z rotated by its orientation.
	//
	// Returns:
	//   - mgl32.Vec3: the facing direction
	Forward() mgl32.Vec3

	// ModelMatrix returns the object's transform relative to its parent.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// Animator returns the skeletal animator driving this object's skin, or nil.
	//
	// Returns:
	//   - animator.SkeletalAnimator: the attached animator or nil
	Animator() animator.SkeletalAnimator

	// SetAnimator attaches a skeletal animator. Pass nil to detach.
	//
	// Parameters:
	//   - anim: the animator to attach
	SetAnimator(anim animator.SkeletalAnimator)

	// Children returns the object's direct children.
	//
	// Returns:
	//   - []GameObject: the children in insertion order
	Children() []GameObject

	// AddChild appends a child node.
	//
	// Parameters:
	//   - child: the node to attach
	AddChild(child GameObject)

	// RemoveChild detaches a direct child.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if child was found and removed
	RemoveChild(child GameObject) bool

	// Walk visits this node and its enabled descendants depth-first with their world matrices.
	// Disabled nodes are skipped along with their subtrees.
	//
	// Parameters:
	//   - parent: the world matrix of this node's parent, identity for a root
	//   - visit: called once per visited node
	Walk(parent mgl32.Mat4, visit func(obj GameObject, world mgl32.Mat4))
}

var (
	_ GameObject              = &gameObject{}
	_ sequencer.Transformable = &gameObject{}
)

// NewGameObject creates a new GameObject configured with the given options.
// Objects are enabled, unit-scaled, and have an identity base transform by default.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale:         mgl32.Vec3{1, 1, 1},
		baseTransform: mgl32.Ident4(),
		dirty:         true,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.position = p
	g.dirty = true
}

func (g *gameObject) Orientation() mgl32.Vec3 {
	return g.orientation
}

func (g *gameObject) SetOrientation(o mgl32.Vec3) {
	g.orientation = o
	g.dirty = true
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.scale = s
	g.dirty = true
}

func (g *gameObject) Center() mgl32.Vec3 {
	return g.center
}

func (g *gameObject) SetCenter(c mgl32.Vec3) {
	g.center = c
	g.dirty = true
}

func (g *gameObject) BaseTransform() mgl32.Mat4 {
	return g.baseTransform
}

func (g *gameObject) SetBaseTransform(m mgl32.Mat4) {
	g.baseTransform = m
	g.dirty = true
}

func (g *gameObject) Move(offset mgl32.Vec3) {
	g.SetPosition(g.position.Add(offset))
}

func (g *gameObject) Rotate(delta mgl32.Vec3) {
	g.SetOrientation(g.orientation.Add(delta))
}

func (g *gameObject) Grow(factor mgl32.Vec3) {
	g.SetScale(mgl32.Vec3{g.scale[0] * factor[0], g.scale[1] * factor[1], g.scale[2] * factor[2]})
}

func (g *gameObject) Forward() mgl32.Vec3 {
	return g.rotationMatrix().Mul4x1(localForward.Vec4(0)).Vec3().Normalize()
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	if g.dirty {
		g.rebuildModelMatrix()
	}
	return g.model
}

func (g *gameObject) Animator() animator.SkeletalAnimator {
	return g.animator
}

func (g *gameObject) SetAnimator(anim animator.SkeletalAnimator) {
	g.animator = anim
}

func (g *gameObject) Children() []GameObject {
	return g.children
}

func (g *gameObject) AddChild(child GameObject) {
	g.children = append(g.children, child)
}

func (g *gameObject) RemoveChild(child GameObject) bool {
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

func (g *gameObject) Walk(parent mgl32.Mat4, visit func(obj GameObject, world mgl32.Mat4)) {
	if !g.Enabled() {
		return
	}
	world := parent.Mul4(g.ModelMatrix())
	visit(g, world)
	for _, c := range g.children {
		c.Walk(world, visit)
	}
}

func (g *gameObject) rotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(g.orientation[2]).
		Mul4(mgl32.HomogRotate3DX(g.orientation[0])).
		Mul4(mgl32.HomogRotate3DY(g.orientation[1]))
}

func (g *gameObject) rebuildModelMatrix() {
	pivot := mgl32.Vec3{g.center[0] * g.scale[0], g.center[1] * g.scale[1], g.center[2] * g.scale[2]}

	g.model = mgl32.Translate3D(g.position[0], g.position[1], g.position[2]).
		Mul4(mgl32.Translate3D(pivot[0], pivot[1], pivot[2])).
		Mul4(g.rotationMatrix()).
		Mul4(mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2])).
		Mul4(mgl32.Translate3D(-g.center[0], -g.center[1], -g.center[2])).
		Mul4(g.baseTransform)
	g.dirty = false
}
