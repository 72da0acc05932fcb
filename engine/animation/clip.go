package animation

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownNode is returned when a clip animates a node its skeleton does not contain.
	ErrUnknownNode = errors.New("animation: channel targets unknown node")

	// ErrZeroDuration is returned when a clip has no positive duration.
	ErrZeroDuration = errors.New("animation: clip duration must be positive")

	// ErrInvalidTickRate is returned when a clip declares a negative ticks-per-second.
	ErrInvalidTickRate = errors.New("animation: ticks per second must not be negative")
)

// defaultTicksPerSecond applies when a clip leaves its rate unspecified.
const defaultTicksPerSecond = 1

// Clip is an animation bound to one skeleton. Tracks are indexed by node, nil where a node is not animated.
// A Clip is immutable after construction and safe to share between evaluators.
type Clip struct {
	name           string
	duration       float32
	ticksPerSecond float32
	skel           skeleton.Skeleton
	tracks         []*BoneTrack
	animated       int
	logger         *slog.Logger
}

// NewClip binds an imported clip to a skeleton.
//
// Parameters:
//   - spec: the imported clip
//   - skel: the skeleton the clip was authored for
//   - options: functional options to configure the clip
//
// Returns:
//   - *Clip: the bound clip
//   - error: error if a channel targets an unknown node, keys are malformed, or the duration is not positive
func NewClip(spec model.ClipSpec, skel skeleton.Skeleton, options ...ClipBuilderOption) (*Clip, error) {
	c := &Clip{
		name:           spec.Name,
		ticksPerSecond: spec.TicksPerSecond,
		skel:           skel,
		tracks:         make([]*BoneTrack, len(skel.Nodes())),
		logger:         slog.Default(),
	}
	for _, option := range options {
		option(c)
	}

	if c.ticksPerSecond < 0 {
		return nil, fmt.Errorf("clip %q: %w", spec.Name, ErrInvalidTickRate)
	}
	if c.ticksPerSecond == 0 {
		c.ticksPerSecond = defaultTicksPerSecond
	}

	nodes := skel.Nodes()
	var latest float32
	for name, channel := range spec.Channels {
		idx, ok := skel.NodeIndex(name)
		if !ok {
			return nil, fmt.Errorf("clip %q: %w: %q", spec.Name, ErrUnknownNode, name)
		}
		if channel.Empty() {
			continue
		}
		track, err := NewBoneTrack(name, idx, channel, nodes[idx].BindTransform)
		if err != nil {
			return nil, fmt.Errorf("clip %q: %w", spec.Name, err)
		}
		c.tracks[idx] = track
		c.animated++
		latest = max(latest, track.MaxTime())
	}

	c.duration = spec.Duration
	if c.duration == 0 {
		c.duration = latest
	}
	if !(c.duration > 0) {
		return nil, fmt.Errorf("clip %q: %w", spec.Name, ErrZeroDuration)
	}

	c.logger.Debug("clip bound",
		"clip", c.name,
		"skeleton", skel.Name(),
		"tracks", c.animated,
		"duration", c.duration,
		"ticks_per_second", c.ticksPerSecond)
	return c, nil
}

// LoadClips binds every clip of an imported rig to skel.
//
// Parameters:
//   - rig: the imported rig
//   - skel: the skeleton built from the same rig
//   - options: functional options applied to every clip
//
// Returns:
//   - map[string]*Clip: the clips keyed by name
//   - error: the first binding error
func LoadClips(rig *model.Rig, skel skeleton.Skeleton, options ...ClipBuilderOption) (map[string]*Clip, error) {
	clips := make(map[string]*Clip, len(rig.Clips))
	for _, spec := range rig.Clips {
		c, err := NewClip(spec, skel, options...)
		if err != nil {
			return nil, err
		}
		clips[spec.Name] = c
	}
	return clips, nil
}

// Name returns the clip's identifier.
func (c *Clip) Name() string {
	return c.name
}

// Duration returns the clip length in ticks.
func (c *Clip) Duration() float32 {
	return c.duration
}

// TicksPerSecond returns the clip's tick rate.
func (c *Clip) TicksPerSecond() float32 {
	return c.ticksPerSecond
}

// Skeleton returns the skeleton the clip is bound to.
func (c *Clip) Skeleton() skeleton.Skeleton {
	return c.skel
}

// AnimatedNodes returns the number of nodes with a track.
func (c *Clip) AnimatedNodes() int {
	return c.animated
}

// Track returns the track animating a node, or nil.
//
// Parameters:
//   - nodeIndex: the node index
//
// Returns:
//   - *BoneTrack: the node's track, or nil if the clip does not animate it
func (c *Clip) Track(nodeIndex int32) *BoneTrack {
	if nodeIndex < 0 || int(nodeIndex) >= len(c.tracks) {
		return nil
	}
	return c.tracks[nodeIndex]
}

// TrackByName returns the track animating the named node, or nil.
func (c *Clip) TrackByName(name string) *BoneTrack {
	idx, ok := c.skel.NodeIndex(name)
	if !ok {
		return nil
	}
	return c.tracks[idx]
}

// LocalTransform returns a node's local transform at t: its track if animated, its bind pose otherwise.
//
// Parameters:
//   - nodeIndex: the node index
//   - t: the sample time in ticks
//
// Returns:
//   - model.Transform: the node's local transform
func (c *Clip) LocalTransform(nodeIndex int32, t float32) model.Transform {
	if track := c.tracks[nodeIndex]; track != nil {
		return track.LocalTransform(t)
	}
	return c.skel.Nodes()[nodeIndex].BindTransform
}

// LocalMatrix returns a node's local matrix at t: its track if animated, its bind matrix otherwise.
func (c *Clip) LocalMatrix(nodeIndex int32, t float32) mgl32.Mat4 {
	if track := c.tracks[nodeIndex]; track != nil {
		return track.LocalMatrix(t)
	}
	return c.skel.Nodes()[nodeIndex].Bind
}

// Evaluate computes the final skinning palette at t into a new slice.
//
// Parameters:
//   - t: the sample time in ticks
//
// Returns:
//   - []mgl32.Mat4: one matrix per bone index
func (c *Clip) Evaluate(t float32) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, c.skel.BoneCount())
	c.EvaluateInto(t, skeleton.NewWalker(c.skel), out)
	return out
}

// EvaluateInto computes the final skinning palette at t into out using the caller's walker.
//
// Parameters:
//   - t: the sample time in ticks
//   - w: a walker created for this clip's skeleton
//   - out: destination palette indexed by bone
func (c *Clip) EvaluateInto(t float32, w *skeleton.Walker, out []mgl32.Mat4) {
	w.Walk(func(nodeIndex int32, node *skeleton.Node) mgl32.Mat4 {
		if track := c.tracks[nodeIndex]; track != nil {
			return track.LocalMatrix(t)
		}
		return node.Bind
	}, out)
}

// PoseEqual reports whether two palettes match element-wise within epsilon.
func PoseEqual(a, b []mgl32.Mat4, epsilon float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !common.Mat4ApproxEqual(a[i], b[i], epsilon) {
			return false
		}
	}
	return true
}
