package animator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/animation"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrSkeletonMismatch is returned when the two clips of a transition are bound to different skeletons.
	ErrSkeletonMismatch = errors.New("animator: transition clips do not share a skeleton")

	// ErrInvalidBlendDuration is returned when a transition's duration is not positive.
	ErrInvalidBlendDuration = errors.New("animator: blend duration must be positive")
)

// nodeBlend caches the fixed local poses of one node for a transition.
type nodeBlend struct {
	blended bool
	from    model.Transform
	to      model.Transform
	fixed   mgl32.Mat4
}

// transition is the implementation of the Transition interface.
type transition struct {
	start     *animation.Clip
	end       *animation.Clip
	startTime float32
	endTime   float32
	duration  float32
	progress  float32
	active    bool
	nodes     []nodeBlend
	walker    *skeleton.Walker
	final     []mgl32.Mat4
	logger    *slog.Logger
}

// Transition cross-fades from a frozen frame of one clip to a frozen frame of another over a fixed duration.
//
// Both clips are sampled at fixed times for the whole transition. Nodes animated by both clips blend
// translation and scale linearly and rotation along the shorter arc. Every other node holds the start
// clip's pose, or its bind pose if the start clip does not animate it.
type Transition interface {
	// Start rewinds progress to zero, activates the transition, and evaluates the progress-zero pose.
	Start()

	// Update advances progress by deltaTime. While progress is in [0, duration) the blended pose is
	// recomputed. The update that reaches the duration evaluates the end pose and finishes the transition.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last update in seconds
	Update(deltaTime float32)

	// Finished reports whether the transition is inactive, either not started or completed.
	//
	// Returns:
	//   - bool: true if no blend is in progress
	Finished() bool

	// Progress returns the elapsed blend time in seconds.
	//
	// Returns:
	//   - float32: progress in [0, duration]
	Progress() float32

	// Duration returns the blend length in seconds.
	//
	// Returns:
	//   - float32: the blend duration
	Duration() float32

	// BlendFactor returns progress / duration.
	//
	// Returns:
	//   - float32: the blend factor in [0, 1]
	BlendFactor() float32

	// SetClips rebinds the transition to new clips and sampling times and deactivates it.
	//
	// Parameters:
	//   - start: the clip blended from
	//   - end: the clip blended to
	//   - startTime: the start clip's fixed sample time in ticks
	//   - endTime: the end clip's fixed sample time in ticks
	//
	// Returns:
	//   - error: ErrSkeletonMismatch if the clips are bound to incompatible skeletons
	SetClips(start, end *animation.Clip, startTime, endTime float32) error

	// FinalBoneMatrices returns the palette from the last evaluation, indexed by bone.
	//
	// Returns:
	//   - []mgl32.Mat4: the current skinning palette
	FinalBoneMatrices() []mgl32.Mat4
}

var _ Transition = &transition{}

// NewTransition creates an inactive transition between two clips. Call Start to begin blending.
//
// Parameters:
//   - start: the clip blended from
//   - end: the clip blended to
//   - startTime: the start clip's fixed sample time in ticks
//   - endTime: the end clip's fixed sample time in ticks
//   - duration: the blend length in seconds
//   - options: functional options to configure the transition
//
// Returns:
//   - Transition: the transition
//   - error: error if a clip is nil, the skeletons differ, or the duration is not positive
func NewTransition(start, end *animation.Clip, startTime, endTime, duration float32, options ...TransitionBuilderOption) (Transition, error) {
	if !(duration > 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidBlendDuration, duration)
	}

	tr := &transition{
		duration: duration,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(tr)
	}

	if err := tr.SetClips(start, end, startTime, endTime); err != nil {
		return nil, err
	}
	return tr, nil
}

func (tr *transition) SetClips(start, end *animation.Clip, startTime, endTime float32) error {
	if start == nil || end == nil {
		return ErrNilClip
	}
	skel := start.Skeleton()
	if !skel.Compatible(end.Skeleton()) {
		return fmt.Errorf("%w: %q and %q", ErrSkeletonMismatch, start.Name(), end.Name())
	}

	tr.start, tr.end = start, end
	tr.startTime, tr.endTime = startTime, endTime
	tr.active = false
	tr.progress = 0

	if tr.walker == nil || tr.walker.Skeleton() != skel {
		tr.walker = skeleton.NewWalker(skel)
		tr.final = make([]mgl32.Mat4, skel.BoneCount())
		tr.nodes = make([]nodeBlend, len(skel.Nodes()))
	}

	for i := range tr.nodes {
		idx := int32(i)
		from, to := start.Track(idx), end.Track(idx)
		if from != nil && to != nil {
			tr.nodes[i] = nodeBlend{
				blended: true,
				from:    from.LocalTransform(startTime),
				to:      to.LocalTransform(endTime),
			}
			continue
		}
		tr.nodes[i] = nodeBlend{fixed: start.LocalMatrix(idx, startTime)}
	}

	tr.evaluate(0)
	return nil
}

func (tr *transition) Start() {
	tr.progress = 0
	tr.active = true
	tr.evaluate(0)
	tr.logger.Debug("transition started",
		"from", tr.start.Name(),
		"to", tr.end.Name(),
		"duration", tr.duration)
}

func (tr *transition) Update(deltaTime float32) {
	if !tr.active {
		return
	}

	tr.progress += deltaTime
	switch {
	case tr.progress < 0:
		tr.active = false
	case tr.progress < tr.duration:
		tr.evaluate(tr.progress / tr.duration)
	default:
		tr.progress = tr.duration
		tr.evaluate(1)
		tr.active = false
		tr.logger.Debug("transition finished", "from", tr.start.Name(), "to", tr.end.Name())
	}
}

func (tr *transition) Finished() bool {
	return !tr.active
}

func (tr *transition) Progress() float32 {
	return tr.progress
}

func (tr *transition) Duration() float32 {
	return tr.duration
}

func (tr *transition) BlendFactor() float32 {
	return common.Clamp01(tr.progress / tr.duration)
}

func (tr *transition) FinalBoneMatrices() []mgl32.Mat4 {
	return tr.final
}

func (tr *transition) evaluate(factor float32) {
	tr.walker.Walk(func(nodeIndex int32, _ *skeleton.Node) mgl32.Mat4 {
		n := &tr.nodes[nodeIndex]
		if !n.blended {
			return n.fixed
		}
		return common.ComposeTRS(
			common.LerpVec3(n.from.Translation, n.to.Translation, factor),
			common.SlerpShortest(n.from.Rotation, n.to.Rotation, factor),
			common.LerpVec3(n.from.Scale, n.to.Scale, factor),
		)
	}, tr.final)
}
