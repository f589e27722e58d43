package mathx

import "math"

// Vec3 is a 3-component float32 vector. Components are float32 because that
// is what goes on the wire; accumulate in float64 only where precision matters.
type Vec3 struct {
	X, Y, Z float32
}

// Canonical axes. Forward is +Z and up is +Y; the rotation codec and the
// look-rotation construction both assume these.
var (
	Forward = Vec3{0, 0, 1}
	Up      = Vec3{0, 1, 0}
	Right   = Vec3{1, 0, 0}
)

const nearZero = 1e-6

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// IsNearZero reports whether the vector's magnitude is too small to define a
// direction. The rotation codec substitutes a canonical axis in that case.
func (v Vec3) IsNearZero() bool {
	return float64(v.Dot(v)) < nearZero
}

// Normalized returns the unit vector, or the zero vector when the input has
// no usable direction.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if float64(l) < nearZero {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp linearly blends a toward b by t. t is not clamped here; callers clamp.
func Lerp(a, b Vec3, t float32) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Clamp01 clamps t into [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
