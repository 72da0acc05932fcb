package demo

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/animation"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/game_object"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/sequencer"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/config"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// world-space directions the movement keys map to; the camera looks down -Z
var (
	moveForward = mgl32.Vec3{0, 0, -1}
	moveRight   = mgl32.Vec3{1, 0, 0}
)

// groundEpsilon is how close to the ground a finished jump must land to be snapped onto it.
const groundEpsilon = 0.0005

type input struct {
	forward, backward, left, right bool
}

func (in input) direction() mgl32.Vec3 {
	var d mgl32.Vec3
	if in.forward {
		d = d.Add(moveForward)
	} else if in.backward {
		d = d.Sub(moveForward)
	}
	if in.right {
		d = d.Add(moveRight)
	} else if in.left {
		d = d.Sub(moveRight)
	}
	return d
}

// character is the implementation of the Character interface.
type character struct {
	object game_object.GameObject

	idle       animator.SkeletalAnimator
	walk       animator.SkeletalAnimator
	transition animator.Transition
	palette    []mgl32.Mat4

	turn sequencer.Sequencer
	jump sequencer.Sequencer

	keys    input
	facing  mgl32.Vec3
	desired mgl32.Vec3
	moving  bool
	groundY float32

	settings config.Animation
	logger   *slog.Logger
}

// Character is the player-controlled skinned object. Held direction keys walk and turn it, the
// jump key runs an up-and-down translation, and its bone palette comes from the walk clip while
// moving, the idle clip while standing, or a cross-fade between them when it starts walking.
type Character interface {
	// Object returns the scene node the character moves.
	Object() game_object.GameObject

	// KeyDown records a key press. Space starts a jump if none is running.
	KeyDown(keyCode uint32)

	// KeyUp records a key release.
	KeyUp(keyCode uint32)

	// Tick advances input-driven movement and animation by deltaTime seconds.
	Tick(deltaTime float32)

	// Moving reports whether the last tick walked the character.
	Moving() bool

	// Jumping reports whether a jump is in progress.
	Jumping() bool

	// Turning reports whether a turn is in progress.
	Turning() bool

	// Blending reports whether the idle-to-walk cross-fade is in progress.
	Blending() bool

	// Walk returns the walk clip's animator.
	Walk() animator.SkeletalAnimator

	// FinalBoneMatrices returns the palette to draw this frame.
	FinalBoneMatrices() []mgl32.Mat4
}

var _ Character = &character{}

// NewCharacter creates a character driving object with a walk clip and an optional idle clip.
//
// Parameters:
//   - object: the scene node to move and turn
//   - walk: the clip played while moving
//   - idle: the clip played while standing, or nil to hold the walk clip's first frame
//   - settings: locomotion tuning
//   - logger: lifecycle logs
//
// Returns:
//   - Character: the character
//   - error: error if an animator or the transition cannot be built
func NewCharacter(object game_object.GameObject, walk, idle *animation.Clip, settings config.Animation, logger *slog.Logger) (Character, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &character{
		object:   object,
		facing:   object.Forward(),
		groundY:  object.Position()[1],
		settings: settings,
		logger:   logger,
	}

	var err error
	c.walk, err = animator.NewSkeletalAnimator(walk,
		animator.WithAutoPlay(false),
		animator.WithSpeed(settings.Speed),
		animator.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	c.palette = c.walk.FinalBoneMatrices()

	if idle != nil {
		c.idle, err = animator.NewSkeletalAnimator(idle, animator.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		c.transition, err = animator.NewTransition(idle, walk, 0, 0, settings.BlendDuration,
			animator.WithTransitionLogger(logger))
		if err != nil {
			return nil, err
		}
		c.palette = c.idle.FinalBoneMatrices()
	}

	c.turn = sequencer.NewSequencer(
		sequencer.WithName("turn"),
		sequencer.WithLogger(logger),
		sequencer.WithActions(c.turnAction))
	c.jump = sequencer.NewSequencer(
		sequencer.WithName("jump"),
		sequencer.WithLogger(logger),
		sequencer.WithActions(
			sequencer.Translation(object, mgl32.Vec3{0, settings.JumpHeight, 0}, settings.JumpDuration),
			sequencer.Translation(object, mgl32.Vec3{0, -settings.JumpHeight, 0}, settings.JumpDuration),
		))

	object.SetAnimator(c.walk)
	return c, nil
}

// turnAction measures the turn when it activates, so it always starts from the facing the
// previous turn ended on.
func (c *character) turnAction() sequencer.Action {
	angle := common.SignedAngleY(c.facing, c.desired)
	if c.desired.Len() > 0 {
		c.facing = c.desired
	}
	return sequencer.NewRotationAction(c.object, mgl32.Vec3{0, angle, 0}, c.settings.TurnDuration)
}

func (c *character) Object() game_object.GameObject {
	return c.object
}

func (c *character) KeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyW, common.KeyUp:
		c.keys.forward = true
	case common.KeyS, common.KeyDown:
		c.keys.backward = true
	case common.KeyA, common.KeyLeft:
		c.keys.left = true
	case common.KeyD, common.KeyRight:
		c.keys.right = true
	case common.KeySpace:
		if c.jump.Finished() {
			c.groundY = c.object.Position()[1]
			c.jump.Start()
		}
	}
}

func (c *character) KeyUp(keyCode uint32) {
	switch keyCode {
	case common.KeyW, common.KeyUp:
		c.keys.forward = false
	case common.KeyS, common.KeyDown:
		c.keys.backward = false
	case common.KeyA, common.KeyLeft:
		c.keys.left = false
	case common.KeyD, common.KeyRight:
		c.keys.right = false
	}
}

func (c *character) Tick(deltaTime float32) {
	c.desired = c.keys.direction()
	wasMoving := c.moving
	c.moving = c.desired.Len() > 0 && !c.Jumping()

	if c.desired.Len() > 0 {
		c.object.Move(c.desired.Normalize().Mul(c.settings.MoveSpeed * deltaTime))
		if c.turn.Finished() {
			c.turn.Start()
		}
	}
	c.turn.Tick(deltaTime)
	c.tickJump(deltaTime)

	if c.moving && !wasMoving && c.transition != nil {
		if err := c.transition.SetClips(c.idle.Clip(), c.walk.Clip(), c.idle.Time(), 0); err == nil {
			c.transition.Start()
		}
	}
	c.animate(deltaTime)
}

func (c *character) tickJump(deltaTime float32) {
	if c.jump.Finished() {
		return
	}
	c.jump.Tick(deltaTime)
	if c.jump.Finished() {
		p := c.object.Position()
		if math32.Abs(p[1]-c.groundY) <= groundEpsilon {
			p[1] = c.groundY
			c.object.SetPosition(p)
		}
	}
}

func (c *character) animate(deltaTime float32) {
	if !c.moving {
		c.walk.Reset()
		if c.idle == nil {
			c.palette = c.walk.FinalBoneMatrices()
			return
		}
		c.idle.Update(deltaTime)
		c.palette = c.idle.FinalBoneMatrices()
		return
	}

	if c.Blending() {
		c.transition.Update(deltaTime)
		if !c.transition.Finished() {
			c.palette = c.transition.FinalBoneMatrices()
			return
		}
		c.logger.Debug("idle to walk blend finished")
	}

	c.walk.Play()
	c.walk.Update(deltaTime)
	c.palette = c.walk.FinalBoneMatrices()
}

func (c *character) Moving() bool {
	return c.moving
}

func (c *character) Jumping() bool {
	return !c.jump.Finished()
}

func (c *character) Turning() bool {
	return !c.turn.Finished()
}

func (c *character) Blending() bool {
	return c.transition != nil && !c.transition.Finished()
}

func (c *character) Walk() animator.SkeletalAnimator {
	return c.walk
}

func (c *character) FinalBoneMatrices() []mgl32.Mat4 {
	return c.palette
}
