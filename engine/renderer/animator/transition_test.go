package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/animation"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/rigs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bendClip animates the same nodes as the arm's idle clip, so every node blends.
func bendClip(t *testing.T, skel skeleton.Skeleton) *animation.Clip {
	t.Helper()
	clip, err := animation.NewClip(model.ClipSpec{
		Name:     "bend",
		Duration: 1,
		Channels: map[string]model.ChannelSpec{
			rigs.Shoulder: {PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{0.5, 1, 0}}}},
			rigs.Elbow:    {RotationKeys: []model.QuaternionKeyframe{{Time: 0, Value: mgl32.QuatRotate(-1.2, mgl32.Vec3{0, 0, 1})}}},
		},
	}, skel)
	require.NoError(t, err)
	return clip
}

func TestTransitionEndpoints(t *testing.T) {
	clips := armClips(t)
	idle := clips["idle"]
	bend := bendClip(t, idle.Skeleton())

	tr, err := NewTransition(idle, bend, 0.6, 0, 0.3)
	require.NoError(t, err)
	assert.True(t, tr.Finished())

	tr.Start()
	assert.False(t, tr.Finished())
	assert.Equal(t, float32(0), tr.BlendFactor())
	assert.True(t, animation.PoseEqual(idle.Evaluate(0.6), tr.FinalBoneMatrices(), 1e-5))

	tr.Update(0.15)
	assert.False(t, tr.Finished())
	assert.InDelta(t, 0.5, tr.BlendFactor(), 1e-5)
	assert.False(t, animation.PoseEqual(idle.Evaluate(0.6), tr.FinalBoneMatrices(), 1e-3))
	assert.False(t, animation.PoseEqual(bend.Evaluate(0), tr.FinalBoneMatrices(), 1e-3))

	tr.Update(0.15)
	assert.True(t, tr.Finished())
	assert.Equal(t, tr.Duration(), tr.Progress())
	assert.True(t, animation.PoseEqual(bend.Evaluate(0), tr.FinalBoneMatrices(), 1e-5))

	// finished transitions hold their last pose
	tr.Update(1)
	assert.True(t, animation.PoseEqual(bend.Evaluate(0), tr.FinalBoneMatrices(), 1e-5))
}

func TestTransitionHoldsStartPoseForUnsharedNodes(t *testing.T) {
	clips := armClips(t)
	idle, wave := clips["idle"], clips["wave"]

	tr, err := NewTransition(idle, wave, 1, 12, 0.5)
	require.NoError(t, err)
	tr.Start()
	tr.Update(1)
	require.True(t, tr.Finished())

	// only the shoulder is animated by both clips; the elbow keeps idle's pose and the wrist its bind pose
	skel := idle.Skeleton()
	w := skeleton.NewWalker(skel)
	want := make([]mgl32.Mat4, skel.BoneCount())
	w.Walk(func(nodeIndex int32, node *skeleton.Node) mgl32.Mat4 {
		switch node.Name {
		case rigs.Shoulder:
			to := wave.Track(nodeIndex).LocalTransform(12)
			return common.ComposeTRS(to.Translation, to.Rotation, to.Scale)
		case rigs.Elbow:
			return idle.LocalMatrix(nodeIndex, 1)
		default:
			return node.Bind
		}
	}, want)
	assert.True(t, animation.PoseEqual(want, tr.FinalBoneMatrices(), 1e-4))
}

func TestTransitionRestart(t *testing.T) {
	clips := armClips(t)
	idle := clips["idle"]
	bend := bendClip(t, idle.Skeleton())

	tr, err := NewTransition(idle, bend, 0, 0, 0.2)
	require.NoError(t, err)
	tr.Start()
	tr.Update(0.5)
	require.True(t, tr.Finished())

	tr.Start()
	assert.False(t, tr.Finished())
	assert.Equal(t, float32(0), tr.Progress())
	assert.True(t, animation.PoseEqual(idle.Evaluate(0), tr.FinalBoneMatrices(), 1e-5))
}

func TestTransitionInactiveIgnoresUpdate(t *testing.T) {
	clips := armClips(t)
	tr, err := NewTransition(clips["idle"], clips["wave"], 0, 0, 1)
	require.NoError(t, err)

	tr.Update(0.5)
	assert.Equal(t, float32(0), tr.Progress())
	assert.True(t, tr.Finished())
}

func TestNewTransitionErrors(t *testing.T) {
	clips := armClips(t)
	idle := clips["idle"]

	_, err := NewTransition(idle, clips["wave"], 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidBlendDuration)

	_, err = NewTransition(idle, nil, 0, 0, 1)
	assert.ErrorIs(t, err, ErrNilClip)

	rig := rigs.Arm()
	rig.BoneOffsets[rigs.Elbow] = mgl32.Ident4()
	other, err := skeleton.FromRig(rig)
	require.NoError(t, err)
	foreign, err := animation.NewClip(rig.Clips[0], other)
	require.NoError(t, err)

	_, err = NewTransition(idle, foreign, 0, 0, 1)
	assert.ErrorIs(t, err, ErrSkeletonMismatch)

	// an identical rebuild of the same rig is interchangeable
	same, err := skeleton.FromRig(rigs.Arm())
	require.NoError(t, err)
	twin, err := animation.NewClip(rigs.Arm().Clips[1], same)
	require.NoError(t, err)
	_, err = NewTransition(idle, twin, 0, 0, 1)
	assert.NoError(t, err)
}
