package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// assertVecNear compares vectors component-wise with an absolute tolerance.
func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject(WithID(7), WithName("hero"))

	assert.Equal(t, uint64(7), obj.ID())
	assert.Equal(t, "hero", obj.Name())
	assert.True(t, obj.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Equal(t, mgl32.Ident4(), obj.ModelMatrix())
	assert.Nil(t, obj.Animator())
}

func TestModelMatrixComposition(t *testing.T) {
	obj := NewGameObject(
		WithPosition(5, 0, 0),
		WithScale(2, 2, 2),
		WithCenter(1, 0, 0),
		WithOrientation(0, 0, math32.Pi/2),
	)

	// the center maps to position + center * scale
	assertVecNear(t, mgl32.Vec3{7, 0, 0}, point(obj.ModelMatrix(), mgl32.Vec3{1, 0, 0}), 1e-5)
	// a point one unit right of the center rotates a quarter turn about it and doubles
	assertVecNear(t, mgl32.Vec3{7, 2, 0}, point(obj.ModelMatrix(), mgl32.Vec3{2, 0, 0}), 1e-5)
}

func TestModelMatrixBaseTransformAppliesFirst(t *testing.T) {
	obj := NewGameObject(
		WithBaseTransform(mgl32.Translate3D(0, 1, 0)),
		WithScale(3, 3, 3),
	)
	assertVecNear(t, mgl32.Vec3{0, 3, 0}, point(obj.ModelMatrix(), mgl32.Vec3{}), 1e-5)
}

func TestMutatorsRebuildMatrix(t *testing.T) {
	obj := NewGameObject()
	_ = obj.ModelMatrix()

	obj.Move(mgl32.Vec3{1, 2, 3})
	obj.Move(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{2, 2, 3}, obj.Position())
	assert.True(t, common.Mat4ApproxEqual(mgl32.Translate3D(2, 2, 3), obj.ModelMatrix(), 1e-6))

	obj.Grow(mgl32.Vec3{2, 3, 4})
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, obj.Scale())

	obj.Rotate(mgl32.Vec3{0, 0.5, 0})
	obj.Rotate(mgl32.Vec3{0, 0.25, 0})
	assert.InDelta(t, 0.75, obj.Orientation()[1], 1e-6)
}

func TestForward(t *testing.T) {
	obj := NewGameObject()
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, obj.Forward(), 1e-6)

	obj.Rotate(mgl32.Vec3{0, math32.Pi / 2, 0})
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, obj.Forward(), 1e-5)
}

func TestWalkComposesParentFirst(t *testing.T) {
	hand := NewGameObject(WithName("hand"), WithPosition(0, 1, 0))
	arm := NewGameObject(WithName("arm"), WithPosition(1, 0, 0), WithChildren(hand))
	hidden := NewGameObject(WithName("hidden"), WithEnabled(false), WithChildren(NewGameObject(WithName("under"))))
	root := NewGameObject(WithName("root"), WithScale(2, 2, 2), WithChildren(arm, hidden))

	worlds := map[string]mgl32.Mat4{}
	var order []string
	root.Walk(mgl32.Ident4(), func(obj GameObject, world mgl32.Mat4) {
		order = append(order, obj.Name())
		worlds[obj.Name()] = world
	})

	assert.Equal(t, []string{"root", "arm", "hand"}, order)
	require.Contains(t, worlds, "hand")
	assertVecNear(t, mgl32.Vec3{2, 2, 0}, point(worlds["hand"], mgl32.Vec3{}), 1e-5)
}

func TestRemoveChild(t *testing.T) {
	child := NewGameObject()
	root := NewGameObject(WithChildren(child))

	assert.True(t, root.RemoveChild(child))
	assert.Empty(t, root.Children())
	assert.False(t, root.RemoveChild(child))
}
