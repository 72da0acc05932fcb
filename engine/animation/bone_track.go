package animation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrKeyframeOrder is returned when keyframe times are not strictly increasing.
	ErrKeyframeOrder = errors.New("animation: keyframe times must be strictly increasing")

	// ErrInvalidRotation is returned when a rotation key has zero length.
	ErrInvalidRotation = errors.New("animation: rotation keyframe is not a valid quaternion")
)

// BoneTrack holds the keyframes animating one node and interpolates them at arbitrary times.
// A track without keys for a component returns the node's bind-pose value for it.
type BoneTrack struct {
	name      string
	nodeIndex int32
	positions []model.VectorKeyframe
	rotations []model.QuaternionKeyframe
	scales    []model.VectorKeyframe
	bind      model.Transform
}

// NewBoneTrack validates a channel and builds a track from it.
//
// Parameters:
//   - name: the animated node's name
//   - nodeIndex: the animated node's index in its skeleton
//   - channel: the keyframes authored for the node
//   - bind: the node's bind-pose transform, used for components without keys
//
// Returns:
//   - *BoneTrack: the track
//   - error: error if key times are out of order or a rotation is degenerate
func NewBoneTrack(name string, nodeIndex int32, channel model.ChannelSpec, bind model.Transform) (*BoneTrack, error) {
	if err := checkOrder(len(channel.PositionKeys), func(i int) float32 { return channel.PositionKeys[i].Time }); err != nil {
		return nil, fmt.Errorf("%s position keys: %w", name, err)
	}
	if err := checkOrder(len(channel.RotationKeys), func(i int) float32 { return channel.RotationKeys[i].Time }); err != nil {
		return nil, fmt.Errorf("%s rotation keys: %w", name, err)
	}
	if err := checkOrder(len(channel.ScaleKeys), func(i int) float32 { return channel.ScaleKeys[i].Time }); err != nil {
		return nil, fmt.Errorf("%s scale keys: %w", name, err)
	}

	rotations := make([]model.QuaternionKeyframe, len(channel.RotationKeys))
	for i, k := range channel.RotationKeys {
		if k.Value.Len() == 0 {
			return nil, fmt.Errorf("%s rotation key %d: %w", name, i, ErrInvalidRotation)
		}
		rotations[i] = model.QuaternionKeyframe{Time: k.Time, Value: k.Value.Normalize()}
	}

	return &BoneTrack{
		name:      name,
		nodeIndex: nodeIndex,
		positions: channel.PositionKeys,
		rotations: rotations,
		scales:    channel.ScaleKeys,
		bind:      bind,
	}, nil
}

func checkOrder(n int, timeAt func(int) float32) error {
	for i := 1; i < n; i++ {
		if timeAt(i) <= timeAt(i-1) {
			return fmt.Errorf("%w: key %d at %g follows %g", ErrKeyframeOrder, i, timeAt(i), timeAt(i-1))
		}
	}
	return nil
}

// Name returns the animated node's name.
func (b *BoneTrack) Name() string {
	return b.name
}

// NodeIndex returns the animated node's index.
func (b *BoneTrack) NodeIndex() int32 {
	return b.nodeIndex
}

// LocalTransform samples the track at time t (in ticks).
// Times before the first key or after the last key clamp to that key.
//
// Parameters:
//   - t: the sample time in ticks
//
// Returns:
//   - model.Transform: the interpolated local transform
func (b *BoneTrack) LocalTransform(t float32) model.Transform {
	return model.Transform{
		Translation: b.Position(t),
		Rotation:    b.Rotation(t),
		Scale:       b.Scale(t),
	}
}

// LocalMatrix samples the track at time t and composes Translate * Rotate * Scale.
//
// Parameters:
//   - t: the sample time in ticks
//
// Returns:
//   - mgl32.Mat4: the local transform matrix
func (b *BoneTrack) LocalMatrix(t float32) mgl32.Mat4 {
	tr := b.LocalTransform(t)
	return common.ComposeTRS(tr.Translation, tr.Rotation, tr.Scale)
}

// Position interpolates the translation keys at t.
func (b *BoneTrack) Position(t float32) mgl32.Vec3 {
	if len(b.positions) == 0 {
		return b.bind.Translation
	}
	i, j, factor := bracket(len(b.positions), func(k int) float32 { return b.positions[k].Time }, t)
	if i == j {
		return b.positions[i].Value
	}
	return common.LerpVec3(b.positions[i].Value, b.positions[j].Value, factor)
}

// Rotation interpolates the rotation keys at t along the shorter arc.
func (b *BoneTrack) Rotation(t float32) mgl32.Quat {
	if len(b.rotations) == 0 {
		return b.bind.Rotation
	}
	i, j, factor := bracket(len(b.rotations), func(k int) float32 { return b.rotations[k].Time }, t)
	if i == j {
		return b.rotations[i].Value
	}
	return common.SlerpShortest(b.rotations[i].Value, b.rotations[j].Value, factor)
}

// Scale interpolates the scale keys at t.
func (b *BoneTrack) Scale(t float32) mgl32.Vec3 {
	if len(b.scales) == 0 {
		return b.bind.Scale
	}
	i, j, factor := bracket(len(b.scales), func(k int) float32 { return b.scales[k].Time }, t)
	if i == j {
		return b.scales[i].Value
	}
	return common.LerpVec3(b.scales[i].Value, b.scales[j].Value, factor)
}

// MaxTime returns the latest key time across all components.
func (b *BoneTrack) MaxTime() float32 {
	var latest float32
	if n := len(b.positions); n > 0 {
		latest = max(latest, b.positions[n-1].Time)
	}
	if n := len(b.rotations); n > 0 {
		latest = max(latest, b.rotations[n-1].Time)
	}
	if n := len(b.scales); n > 0 {
		latest = max(latest, b.scales[n-1].Time)
	}
	return latest
}

// bracket finds keys i and j with time(i) <= t < time(j) and the normalized factor between them.
// When t is outside the key range, or there is a single key, i == j names the key to return verbatim.
func bracket(n int, timeAt func(int) float32, t float32) (int, int, float32) {
	// the negated form also catches NaN
	if n == 1 || !(t > timeAt(0)) {
		return 0, 0, 0
	}
	last := n - 1
	if t >= timeAt(last) {
		return last, last, 0
	}

	j := sort.Search(n, func(k int) bool { return timeAt(k) > t })
	i := j - 1
	factor := (t - timeAt(i)) / (timeAt(j) - timeAt(i))
	return i, j, common.Clamp01(factor)
}
