package animator

import (
	"errors"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/animation"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/skeleton"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNilClip is returned when an animator is created without a clip.
var ErrNilClip = errors.New("animator: clip is nil")

// AnimatorState is the playback state of a SkeletalAnimator.
type AnimatorState int

const (
	// StateStopped holds the time-zero pose; Update does nothing.
	StateStopped AnimatorState = iota
	// StatePlaying advances the cursor on every Update.
	StatePlaying
)

// String returns the state name for logging.
func (s AnimatorState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// skeletalAnimator is the implementation of the SkeletalAnimator interface.
type skeletalAnimator struct {
	clip     *animation.Clip
	state    AnimatorState
	time     float32
	speed    float32
	loop     bool
	autoPlay bool
	walker   *skeleton.Walker
	final    []mgl32.Mat4
	logger   *slog.Logger
}

// SkeletalAnimator plays one clip on one skinned object and owns that object's bone palette.
//
// The palette is recomputed on every Update while playing and on Reset, so FinalBoneMatrices is
// always valid, including in the stopped state where it holds the time-zero pose.
// A SkeletalAnimator is not safe for concurrent use, but independent animators sharing one
// clip and skeleton can be updated in parallel.
type SkeletalAnimator interface {
	// Clip returns the clip being played.
	//
	// Returns:
	//   - *animation.Clip: the current clip
	Clip() *animation.Clip

	// State returns the playback state.
	//
	// Returns:
	//   - AnimatorState: StateStopped or StatePlaying
	State() AnimatorState

	// Time returns the playback cursor in clip ticks.
	//
	// Returns:
	//   - float32: the cursor, in [0, duration]
	Time() float32

	// SetTime moves the cursor and recomputes the palette. While stopped only the cursor
	// moves; the palette keeps the time-zero pose until Play.
	//
	// Parameters:
	//   - t: the new cursor in clip ticks; wrapped or clamped into the clip
	SetTime(t float32)

	// Speed returns the playback speed multiplier.
	//
	// Returns:
	//   - float32: the speed multiplier
	Speed() float32

	// SetSpeed sets the playback speed multiplier. Negative values play backwards.
	//
	// Parameters:
	//   - speed: the new multiplier
	SetSpeed(speed float32)

	// Looping reports whether the cursor wraps at the end of the clip.
	//
	// Returns:
	//   - bool: true if looping
	Looping() bool

	// Play enters the playing state and evaluates the pose at the current cursor.
	Play()

	// Update advances the cursor by deltaTime * ticksPerSecond * speed if playing,
	// wraps it into the clip, and recomputes the palette.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last update in seconds
	Update(deltaTime float32)

	// Reset stops playback, rewinds to time zero, and recomputes the palette for that pose.
	Reset()

	// FinalBoneMatrices returns the palette from the last evaluation, indexed by bone.
	// The slice is owned by the animator and overwritten by the next evaluation.
	//
	// Returns:
	//   - []mgl32.Mat4: the current skinning palette
	FinalBoneMatrices() []mgl32.Mat4

	// NodeGlobal returns a node's model-space transform from the last evaluation,
	// which is what attachments such as weapons or effects follow.
	//
	// Parameters:
	//   - nodeIndex: the node index
	//
	// Returns:
	//   - mgl32.Mat4: the node's global transform
	NodeGlobal(nodeIndex int32) mgl32.Mat4
}

var _ SkeletalAnimator = &skeletalAnimator{}

// NewSkeletalAnimator creates an animator for a clip. It starts playing unless
// WithAutoPlay(false) is given. Its palette is evaluated immediately: at the start time when
// playing, at time zero when stopped.
//
// Parameters:
//   - clip: the clip to play
//   - options: functional options to configure the animator
//
// Returns:
//   - SkeletalAnimator: the animator
//   - error: ErrNilClip if clip is nil
func NewSkeletalAnimator(clip *animation.Clip, options ...SkeletalAnimatorBuilderOption) (SkeletalAnimator, error) {
	if clip == nil {
		return nil, ErrNilClip
	}

	a := &skeletalAnimator{
		clip:     clip,
		speed:    1,
		loop:     true,
		autoPlay: true,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(a)
	}

	skel := clip.Skeleton()
	a.walker = skeleton.NewWalker(skel)
	a.final = make([]mgl32.Mat4, skel.BoneCount())
	a.time = a.wrap(a.time)
	if a.autoPlay {
		a.state = StatePlaying
	}
	a.evaluate()
	return a, nil
}

func (a *skeletalAnimator) Clip() *animation.Clip {
	return a.clip
}

func (a *skeletalAnimator) State() AnimatorState {
	return a.state
}

func (a *skeletalAnimator) Time() float32 {
	return a.time
}

func (a *skeletalAnimator) SetTime(t float32) {
	a.time = a.wrap(t)
	a.evaluate()
}

func (a *skeletalAnimator) Speed() float32 {
	return a.speed
}

func (a *skeletalAnimator) SetSpeed(speed float32) {
	a.speed = speed
}

func (a *skeletalAnimator) Looping() bool {
	return a.loop
}

func (a *skeletalAnimator) Play() {
	if a.state == StatePlaying {
		return
	}
	a.logger.Debug("animator playing", "clip", a.clip.Name(), "time", a.time)
	a.state = StatePlaying
	a.evaluate()
}

func (a *skeletalAnimator) Update(deltaTime float32) {
	if a.state != StatePlaying {
		return
	}
	a.time = a.wrap(a.time + deltaTime*a.clip.TicksPerSecond()*a.speed)
	a.evaluate()
}

func (a *skeletalAnimator) Reset() {
	a.state = StateStopped
	a.time = 0
	a.evaluate()
}

func (a *skeletalAnimator) FinalBoneMatrices() []mgl32.Mat4 {
	return a.final
}

func (a *skeletalAnimator) NodeGlobal(nodeIndex int32) mgl32.Mat4 {
	return a.walker.Global(nodeIndex)
}

// wrap brings t into the clip: modulo the duration when looping, clamped otherwise.
func (a *skeletalAnimator) wrap(t float32) float32 {
	duration := a.clip.Duration()
	if !a.loop {
		return mgl32.Clamp(t, 0, duration)
	}
	t = math32.Mod(t, duration)
	if t < 0 {
		t += duration
	}
	return t
}

// evaluate recomputes the palette. A stopped animator always shows the time-zero pose.
func (a *skeletalAnimator) evaluate() {
	t := a.time
	if a.state == StateStopped {
		t = 0
	}
	a.clip.EvaluateInto(t, a.walker, a.final)
}
