package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// assertVecNear compares vectors component-wise with an absolute tolerance.
func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}

func TestLerpVec3(t *testing.T) {
	a := mgl32.Vec3{0, 2, -4}
	b := mgl32.Vec3{10, 4, 4}

	assert.Equal(t, a, LerpVec3(a, b, 0))
	assert.Equal(t, b, LerpVec3(a, b, 1))
	assertVecNear(t, mgl32.Vec3{5, 3, 0}, LerpVec3(a, b, 0.5), 1e-6)
}

func TestSlerpShortestEndpoints(t *testing.T) {
	a := mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0})
	b := mgl32.QuatRotate(1.2, mgl32.Vec3{0, 1, 0})

	assert.InDelta(t, 0, QuatAngle(a, SlerpShortest(a, b, 0)), 1e-3)
	assert.InDelta(t, 0, QuatAngle(b, SlerpShortest(a, b, 1)), 1e-3)
	assert.InDelta(t, 0, QuatAngle(mgl32.QuatRotate(0.75, mgl32.Vec3{0, 1, 0}), SlerpShortest(a, b, 0.5)), 1e-3)
}

func TestSlerpShortestTakesShortArc(t *testing.T) {
	axis := mgl32.Vec3{0, 0, 1}
	a := mgl32.QuatIdent()
	// 190 degrees the long way is 170 degrees the short way; negate to force dot < 0.
	b := mgl32.QuatRotate(mgl32.DegToRad(170), axis).Scale(-1)

	mid := SlerpShortest(a, b, 0.5)
	assert.InDelta(t, mgl32.DegToRad(85), QuatAngle(a, mid), 1e-3)
	assert.InDelta(t, 1, mid.Len(), 1e-5)
}

func TestSlerpShortestNearlyParallel(t *testing.T) {
	a := mgl32.QuatRotate(0.5, mgl32.Vec3{1, 0, 0})
	b := mgl32.QuatRotate(0.5001, mgl32.Vec3{1, 0, 0})

	q := SlerpShortest(a, b, 0.5)
	assert.InDelta(t, 1, q.Len(), 1e-5)
	assert.InDelta(t, 0, QuatAngle(a, q), 1e-3)
}

func TestComposeDecomposeTRS(t *testing.T) {
	tr := mgl32.Vec3{1, -2, 3}
	rot := mgl32.QuatRotate(0.7, mgl32.Vec3{1, 1, 0}.Normalize())
	sc := mgl32.Vec3{2, 0.5, 1.5}

	m := ComposeTRS(tr, rot, sc)
	gotT, gotR, gotS := DecomposeTRS(m)

	assertVecNear(t, tr, gotT, 1e-5)
	assertVecNear(t, sc, gotS, 1e-4)
	assert.InDelta(t, 0, QuatAngle(rot, gotR), 1e-3)
	assert.True(t, Mat4ApproxEqual(m, ComposeTRS(gotT, gotR, gotS), 1e-4))
}

func TestComposeTRSOrder(t *testing.T) {
	// scale first, then rotate, then translate
	m := ComposeTRS(mgl32.Vec3{10, 0, 0}, mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 0, 1}), mgl32.Vec3{2, 2, 2})
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assertVecNear(t, mgl32.Vec3{10, 2, 0}, p.Vec3(), 1e-5)
}

func TestSignedAngleY(t *testing.T) {
	forward := mgl32.Vec3{0, 0, 1}

	assert.InDelta(t, 0, SignedAngleY(forward, forward), 1e-5)
	assert.InDelta(t, math32.Pi/2, SignedAngleY(forward, mgl32.Vec3{1, 0, 0}), 1e-5)
	assert.InDelta(t, -math32.Pi/2, SignedAngleY(forward, mgl32.Vec3{-1, 0, 0}), 1e-5)
	assert.Equal(t, float32(0), SignedAngleY(forward, mgl32.Vec3{0, 1, 0}))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
