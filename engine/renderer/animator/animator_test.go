package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/animation"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/rigs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func armClips(t *testing.T) map[string]*animation.Clip {
	t.Helper()
	rig := rigs.Arm()
	skel, err := skeleton.FromRig(rig)
	require.NoError(t, err)
	clips, err := animation.LoadClips(rig, skel)
	require.NoError(t, err)
	return clips
}

func snapshot(m []mgl32.Mat4) []mgl32.Mat4 {
	return append([]mgl32.Mat4(nil), m...)
}

func TestNewSkeletalAnimatorNilClip(t *testing.T) {
	_, err := NewSkeletalAnimator(nil)
	assert.ErrorIs(t, err, ErrNilClip)
}

func TestSkeletalAnimatorLoopsSeamlessly(t *testing.T) {
	clips := armClips(t)

	for _, name := range []string{"idle", "wave"} {
		clip := clips[name]
		a, err := NewSkeletalAnimator(clip)
		require.NoError(t, err)

		atZero := snapshot(a.FinalBoneMatrices())
		a.Update(clip.Duration() / clip.TicksPerSecond())
		assert.InDelta(t, 0, a.Time(), 1e-4, name)
		assert.True(t, animation.PoseEqual(atZero, a.FinalBoneMatrices(), 1e-5), name)
	}
}

func TestSkeletalAnimatorUpdateAdvancesInTicks(t *testing.T) {
	clips := armClips(t)
	wave := clips["wave"]

	a, err := NewSkeletalAnimator(wave)
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, a.State())

	a.Update(0.25)
	assert.InDelta(t, 6, a.Time(), 1e-4)
	assert.True(t, animation.PoseEqual(wave.Evaluate(6), a.FinalBoneMatrices(), 1e-5))

	a.Update(1)
	assert.InDelta(t, 6, a.Time(), 1e-3)
}

func TestSkeletalAnimatorReset(t *testing.T) {
	clips := armClips(t)
	idle := clips["idle"]

	a, err := NewSkeletalAnimator(idle)
	require.NoError(t, err)
	a.Update(0.7)
	require.NotEqual(t, float32(0), a.Time())

	a.Reset()
	assert.Equal(t, StateStopped, a.State())
	assert.Equal(t, float32(0), a.Time())
	assert.True(t, animation.PoseEqual(idle.Evaluate(0), a.FinalBoneMatrices(), 1e-6))

	// stopped animators ignore updates
	a.Update(0.5)
	assert.Equal(t, float32(0), a.Time())

	a.Play()
	a.Update(0.5)
	assert.InDelta(t, 0.5, a.Time(), 1e-6)
}

func TestSkeletalAnimatorOptions(t *testing.T) {
	clips := armClips(t)
	idle := clips["idle"]

	a, err := NewSkeletalAnimator(idle, WithAutoPlay(false), WithStartTime(1.5), WithSpeed(2))
	require.NoError(t, err)
	assert.Equal(t, StateStopped, a.State())
	assert.Equal(t, float32(1.5), a.Time())
	assert.Equal(t, float32(2), a.Speed())
	// stopped holds the rest pose even with a start time set
	assert.True(t, animation.PoseEqual(idle.Evaluate(0), a.FinalBoneMatrices(), 1e-6))

	a.Play()
	assert.True(t, animation.PoseEqual(idle.Evaluate(1.5), a.FinalBoneMatrices(), 1e-6))
	a.Update(0.5)
	assert.InDelta(t, 0.5, a.Time(), 1e-5)
}

func TestSkeletalAnimatorSetTimeWhileStopped(t *testing.T) {
	clips := armClips(t)
	idle := clips["idle"]

	a, err := NewSkeletalAnimator(idle)
	require.NoError(t, err)
	a.Reset()

	a.SetTime(0.75)
	assert.Equal(t, float32(0.75), a.Time())
	assert.True(t, animation.PoseEqual(idle.Evaluate(0), a.FinalBoneMatrices(), 1e-6))

	a.Play()
	assert.True(t, animation.PoseEqual(idle.Evaluate(0.75), a.FinalBoneMatrices(), 1e-6))
}

func TestSkeletalAnimatorNoLoopClamps(t *testing.T) {
	clips := armClips(t)
	idle := clips["idle"]

	a, err := NewSkeletalAnimator(idle, WithLoop(false))
	require.NoError(t, err)
	assert.False(t, a.Looping())

	a.Update(10)
	assert.Equal(t, idle.Duration(), a.Time())
	assert.Equal(t, StatePlaying, a.State())
}

func TestSkeletalAnimatorReverse(t *testing.T) {
	clips := armClips(t)

	a, err := NewSkeletalAnimator(clips["idle"], WithSpeed(-1))
	require.NoError(t, err)
	a.Update(0.5)
	assert.InDelta(t, 1.5, a.Time(), 1e-5)

	a.SetTime(-0.25)
	assert.InDelta(t, 1.75, a.Time(), 1e-5)
}

func TestAnimatorStateString(t *testing.T) {
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "unknown", AnimatorState(9).String())
}
