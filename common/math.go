package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// slerpLinearThreshold is the cosine above which two quaternions are close enough
// that a normalized lerp is used instead of the trigonometric slerp.
const slerpLinearThreshold = 0.9995

// Clamp01 clamps f into the closed range [0, 1].
func Clamp01(f float32) float32 {
	return mgl32.Clamp(f, 0, 1)
}

// LerpVec3 linearly interpolates between a and b.
//
// Parameters:
//   - a: value at factor 0
//   - b: value at factor 1
//   - factor: interpolation factor, expected in [0, 1]
//
// Returns:
//   - mgl32.Vec3: a + (b - a) * factor
func LerpVec3(a, b mgl32.Vec3, factor float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(factor))
}

// SlerpShortest spherically interpolates between two unit quaternions along the shorter arc.
// q and -q describe the same orientation, so when the inputs point into opposite hemispheres
// the end quaternion is negated before interpolating. The result is normalized.
//
// Parameters:
//   - a: orientation at factor 0
//   - b: orientation at factor 1
//   - factor: interpolation factor, expected in [0, 1]
//
// Returns:
//   - mgl32.Quat: the interpolated unit quaternion
func SlerpShortest(a, b mgl32.Quat, factor float32) mgl32.Quat {
	cos := a.Dot(b)
	if cos < 0 {
		b = b.Scale(-1)
		cos = -cos
	}

	if cos > slerpLinearThreshold {
		return a.Add(b.Sub(a).Scale(factor)).Normalize()
	}

	theta := math32.Acos(cos)
	sinTheta := math32.Sin(theta)
	wa := math32.Sin((1-factor)*theta) / sinTheta
	wb := math32.Sin(factor*theta) / sinTheta
	return a.Scale(wa).Add(b.Scale(wb)).Normalize()
}

// QuatAngle returns the angle in radians of the shortest rotation between two unit quaternions.
func QuatAngle(a, b mgl32.Quat) float32 {
	d := math32.Abs(a.Dot(b))
	if d > 1 {
		d = 1
	}
	return 2 * math32.Acos(d)
}

// ComposeTRS builds the matrix Translate * Rotate * Scale.
//
// Parameters:
//   - t: translation
//   - r: unit rotation quaternion
//   - s: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed column-major matrix
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// DecomposeTRS splits an affine matrix without shear into translation, rotation, and scale.
// A negative determinant is folded into the X scale axis.
//
// Parameters:
//   - m: the column-major matrix to decompose
//
// Returns:
//   - mgl32.Vec3: translation
//   - mgl32.Quat: unit rotation
//   - mgl32.Vec3: scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := mgl32.Vec3{m[12], m[13], m[14]}

	c0 := mgl32.Vec3{m[0], m[1], m[2]}
	c1 := mgl32.Vec3{m[4], m[5], m[6]}
	c2 := mgl32.Vec3{m[8], m[9], m[10]}
	s := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Det() < 0 {
		s[0] = -s[0]
	}

	if s[0] == 0 || s[1] == 0 || s[2] == 0 {
		return t, mgl32.QuatIdent(), s
	}

	c0, c1, c2 = c0.Mul(1/s[0]), c1.Mul(1/s[1]), c2.Mul(1/s[2])
	rot := mgl32.Mat3{
		c0[0], c0[1], c0[2],
		c1[0], c1[1], c1[2],
		c2[0], c2[1], c2[2],
	}
	return t, mgl32.Mat4ToQuat(rot.Mat4()).Normalize(), s
}

// Mat4ApproxEqual reports whether every element of a and b differs by at most epsilon.
func Mat4ApproxEqual(a, b mgl32.Mat4, epsilon float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

// SignedAngleY returns the signed rotation about the Y axis that turns from into to.
// Both vectors are projected onto the XZ plane. Degenerate inputs yield 0.
//
// Parameters:
//   - from: the current facing direction
//   - to: the desired facing direction
//
// Returns:
//   - float32: angle in radians, positive for counter-clockwise when viewed from +Y
func SignedAngleY(from, to mgl32.Vec3) float32 {
	a := mgl32.Vec3{from[0], 0, from[2]}
	b := mgl32.Vec3{to[0], 0, to[2]}
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}
	a, b = a.Normalize(), b.Normalize()
	angle := math32.Acos(mgl32.Clamp(a.Dot(b), -1, 1))
	if a.Cross(b)[1] < 0 {
		angle = -angle
	}
	return angle
}
