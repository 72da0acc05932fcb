package sequencer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transformable is the scene node an action moves or turns.
type Transformable interface {
	// Move offsets the node's position.
	Move(offset mgl32.Vec3)

	// Rotate adds Euler angles, in radians, to the node's orientation.
	Rotate(delta mgl32.Vec3)
}

// linearAction spreads a vector delta evenly over its duration.
type linearAction struct {
	total    mgl32.Vec3
	duration float32
	elapsed  float32
	applied  bool
	rate     mgl32.Vec3
	apply    func(mgl32.Vec3)
}

var _ Action = &linearAction{}

func newLinearAction(total mgl32.Vec3, duration float32, apply func(mgl32.Vec3)) *linearAction {
	return &linearAction{total: total, duration: duration, apply: apply}
}

func (a *linearAction) Start() {
	a.elapsed = 0
	a.applied = false
	if a.duration > 0 {
		a.rate = a.total.Mul(1 / a.duration)
	}
}

func (a *linearAction) Tick(deltaTime float32) {
	if a.duration <= 0 {
		if !a.applied {
			a.apply(a.total)
			a.applied = true
		}
		return
	}

	step := min(deltaTime, a.duration-a.elapsed)
	if step <= 0 {
		return
	}
	a.elapsed += step
	a.apply(a.rate.Mul(step))
}

func (a *linearAction) Duration() float32 {
	return max(a.duration, 0)
}

// NewRotationAction turns target by total Euler radians at a constant rate over duration seconds.
// A non-positive duration applies the whole rotation on the first tick.
//
// Parameters:
//   - target: the node to rotate
//   - total: the Euler rotation to apply in radians
//   - duration: the action length in seconds
//
// Returns:
//   - Action: the rotation action
func NewRotationAction(target Transformable, total mgl32.Vec3, duration float32) Action {
	return newLinearAction(total, duration, target.Rotate)
}

// NewTranslationAction moves target by offset at a constant velocity over duration seconds.
// A non-positive duration applies the whole offset on the first tick.
//
// Parameters:
//   - target: the node to move
//   - offset: the translation to apply
//   - duration: the action length in seconds
//
// Returns:
//   - Action: the translation action
func NewTranslationAction(target Transformable, offset mgl32.Vec3, duration float32) Action {
	return newLinearAction(offset, duration, target.Move)
}

type delayAction struct {
	duration float32
}

// NewDelayAction waits for duration seconds without affecting anything.
func NewDelayAction(duration float32) Action {
	return &delayAction{duration: max(duration, 0)}
}

func (d *delayAction) Start() {}

func (d *delayAction) Tick(float32) {}

func (d *delayAction) Duration() float32 {
	return d.duration
}

// Rotation returns a factory for NewRotationAction with fixed arguments.
func Rotation(target Transformable, total mgl32.Vec3, duration float32) ActionFactory {
	return func() Action { return NewRotationAction(target, total, duration) }
}

// Translation returns a factory for NewTranslationAction with fixed arguments.
func Translation(target Transformable, offset mgl32.Vec3, duration float32) ActionFactory {
	return func() Action { return NewTranslationAction(target, offset, duration) }
}

// Delay returns a factory for NewDelayAction.
func Delay(duration float32) ActionFactory {
	return func() Action { return NewDelayAction(duration) }
}
