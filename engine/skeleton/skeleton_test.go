package skeleton

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/rigs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSkeletonPreOrder(t *testing.T) {
	root := model.NodeSpec{
		Name:      "root",
		Transform: mgl32.Ident4(),
		Children: []model.NodeSpec{
			{Name: "a", Transform: mgl32.Ident4(), Children: []model.NodeSpec{{Name: "a1", Transform: mgl32.Ident4()}}},
			{Name: "b", Transform: mgl32.Ident4()},
		},
	}

	s, err := NewSkeleton(root, nil)
	require.NoError(t, err)

	nodes := s.Nodes()
	require.Len(t, nodes, 4)
	names := []string{nodes[0].Name, nodes[1].Name, nodes[2].Name, nodes[3].Name}
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)
	assert.Equal(t, int32(-1), nodes[0].Parent)
	assert.Equal(t, []int32{1, 3}, nodes[0].Children)
	assert.Equal(t, int32(1), nodes[2].Parent)
	for i, n := range nodes {
		if n.Parent >= 0 {
			assert.Less(t, n.Parent, int32(i), "parent of %s must precede it", n.Name)
		}
	}
	assert.Equal(t, 0, s.BoneCount())
}

func TestNewSkeletonBoneOrder(t *testing.T) {
	s, err := FromRig(rigs.Arm())
	require.NoError(t, err)

	assert.Equal(t, "arm", s.Name())
	assert.Equal(t, 3, s.BoneCount())
	for i, name := range []string{rigs.Shoulder, rigs.Elbow, rigs.Wrist} {
		idx, ok := s.BoneIndex(name)
		require.True(t, ok)
		assert.Equal(t, int32(i), idx)
		nodeIdx, _ := s.NodeIndex(name)
		assert.Equal(t, nodeIdx, s.BoneNode(idx))
	}

	_, ok := s.BoneIndex(rigs.ArmTip)
	assert.False(t, ok)
	_, ok = s.BoneIndex("missing")
	assert.False(t, ok)
}

func TestNewSkeletonImplicitBoneOrder(t *testing.T) {
	rig := rigs.Arm()
	rig.BoneOrder = nil

	s, err := FromRig(rig)
	require.NoError(t, err)

	// pre-order over nodes with offsets
	idx, _ := s.BoneIndex(rigs.Wrist)
	assert.Equal(t, int32(2), idx)
}

func TestNewSkeletonErrors(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		root := model.NodeSpec{Name: "x", Transform: mgl32.Ident4(), Children: []model.NodeSpec{{Name: "x", Transform: mgl32.Ident4()}}}
		_, err := NewSkeleton(root, nil)
		assert.ErrorIs(t, err, ErrDuplicateNodeName)
	})

	t.Run("missing offset", func(t *testing.T) {
		rig := rigs.Arm()
		delete(rig.BoneOffsets, rigs.Elbow)
		_, err := FromRig(rig)
		assert.ErrorIs(t, err, ErrMissingBoneOffset)
	})

	t.Run("unknown bone", func(t *testing.T) {
		rig := rigs.Arm()
		rig.BoneOrder = append(rig.BoneOrder, "ghost")
		_, err := FromRig(rig)
		assert.ErrorIs(t, err, ErrUnknownBone)
	})

	t.Run("singular root", func(t *testing.T) {
		root := model.NodeSpec{Name: "flat", Transform: mgl32.Scale3D(1, 0, 1)}
		_, err := NewSkeleton(root, nil)
		assert.ErrorIs(t, err, ErrSingularRootTransform)
	})
}

func TestGlobalInverse(t *testing.T) {
	root := model.NodeSpec{Name: "root", Transform: mgl32.Translate3D(2, 0, 0)}
	s, err := NewSkeleton(root, nil)
	require.NoError(t, err)

	assert.True(t, common.Mat4ApproxEqual(mgl32.Translate3D(-2, 0, 0), s.GlobalInverse(), 1e-6))
}

func TestBindPoseIsIdentityForArm(t *testing.T) {
	s, err := FromRig(rigs.Arm())
	require.NoError(t, err)

	out := make([]mgl32.Mat4, s.BoneCount())
	BindPose(s, out)
	for i, m := range out {
		assert.True(t, common.Mat4ApproxEqual(mgl32.Ident4(), m, 1e-5), "bone %d", i)
	}
}

func TestWalkerGlobals(t *testing.T) {
	s, err := FromRig(rigs.Arm())
	require.NoError(t, err)

	w := NewWalker(s)
	w.Walk(BindLocal, nil)

	tip, _ := s.NodeIndex(rigs.ArmTip)
	assert.True(t, common.Mat4ApproxEqual(mgl32.Translate3D(0, 3.5, 0), w.Global(tip), 1e-5))
}

func TestCompatible(t *testing.T) {
	a, err := FromRig(rigs.Arm())
	require.NoError(t, err)
	b, err := FromRig(rigs.Arm())
	require.NoError(t, err)

	assert.True(t, a.Compatible(a))
	assert.True(t, a.Compatible(b))
	assert.False(t, a.Compatible(nil))

	rig := rigs.Arm()
	rig.BoneOffsets[rigs.Wrist] = mgl32.Ident4()
	c, err := FromRig(rig)
	require.NoError(t, err)
	assert.False(t, a.Compatible(c))
}
