package arbor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// identityPose is the identity rigid transform.
var identityPose = mgl32.Ident4()

// NewPose composes a pose from a translation and a rotation.
//
// Composition order:
//
//	Rotate -> Translate
func NewPose(pos Vec3, rot Quat) Mat4 {
	m := rot.Normalize().Mat4()
	setTranslation(&m, pos)
	return m
}

// NewScaledPose composes a pose from translation, rotation and scale.
//
// Composition order:
//
//	Scale -> Rotate -> Translate
func NewScaledPose(pos Vec3, rot Quat, scale Vec3) Mat4 {
	m := NewPose(pos, rot)
	setScale(&m, scale)
	return m
}

// translation returns the translation column of m.
func translation(m Mat4) Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// setTranslation overwrites the translation column of m.
func setTranslation(m *Mat4, p Vec3) {
	m[12] = p[0]
	m[13] = p[1]
	m[14] = p[2]
}

// scaleOf returns the length of each basis column of m.
func scaleOf(m Mat4) Vec3 {
	return Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	}
}

// rotation extracts the rotation of m, ignoring any scale on the basis.
func rotation(m Mat4) Quat {
	r := m.Mat3()
	for c := 0; c < 3; c++ {
		col := r.Col(c)
		if l := col.Len(); l > 1e-12 {
			r.SetCol(c, col.Mul(1/l))
		}
	}
	return mgl32.Mat4ToQuat(r.Mat4()).Normalize()
}

// minScale is the smallest basis column length setScale writes. Columns are
// never collapsed to zero so the rotation stays recoverable.
const minScale = 1e-6

// clampScale pushes v away from zero, keeping its sign.
func clampScale(v float32) float32 {
	switch {
	case v >= minScale || v <= -minScale:
		return v
	case v < 0:
		return -minScale
	default:
		return minScale
	}
}

// setRotation replaces the rotation of m with q, keeping its scale and translation.
func setRotation(m *Mat4, q Quat) {
	s := scaleOf(*m)
	r := q.Normalize().Mat4()
	for c := 0; c < 3; c++ {
		col := r.Col(c).Vec3().Mul(clampScale(s[c]))
		m[c*4+0] = col[0]
		m[c*4+1] = col[1]
		m[c*4+2] = col[2]
	}
}

// setScale rescales the basis columns of m to the lengths in s. A degenerate
// column is rebuilt along its unit axis.
func setScale(m *Mat4, s Vec3) {
	for c := 0; c < 3; c++ {
		col := Vec3{m[c*4+0], m[c*4+1], m[c*4+2]}
		l := col.Len()
		if l < 1e-12 {
			col = Vec3{}
			col[c] = 1
			l = 1
		}
		col = col.Mul(clampScale(s[c]) / l)
		m[c*4+0] = col[0]
		m[c*4+1] = col[1]
		m[c*4+2] = col[2]
	}
}

// posesEqual reports whether a and b match element-wise within eps.
func posesEqual(a, b Mat4, eps float32) bool {
	for i := range a {
		if float32(math.Abs(float64(a[i]-b[i]))) > eps {
			return false
		}
	}
	return true
}
