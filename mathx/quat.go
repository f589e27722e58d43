package mathx

import "math"

// Quat is a rotation quaternion (x, y, z, w).
type Quat struct {
	X, Y, Z, W float32
}

// Identity is the no-rotation quaternion.
var Identity = Quat{0, 0, 0, 1}

// FromAxisAngle builds a rotation of angle radians about axis. A degenerate
// axis yields the identity.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalized()
	if a.IsNearZero() {
		return Identity
	}
	s := float32(math.Sin(angle / 2))
	return Quat{a.X * s, a.Y * s, a.Z * s, float32(math.Cos(angle / 2))}
}

// Mul composes rotations: (q.Mul(p)).Rotate(v) == q.Rotate(p.Rotate(v)).
func (q Quat) Mul(p Quat) Quat {
	return Quat{
		q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
		q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Conjugate is the inverse for unit quaternions.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

func (q Quat) Dot(p Quat) float32 {
	return q.X*p.X + q.Y*p.Y + q.Z*p.Z + q.W*p.W
}

// Normalized rescales to unit length; a zero quaternion becomes the identity.
func (q Quat) Normalized() Quat {
	l := math.Sqrt(float64(q.Dot(q)))
	if l < nearZero {
		return Identity
	}
	inv := float32(1 / l)
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// AngleTo returns the angular distance between two rotations in radians.
func (q Quat) AngleTo(p Quat) float64 {
	d := math.Abs(float64(q.Dot(p)))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// Slerp spherically interpolates from a to b by t, taking the short arc.
// Near-parallel inputs fall back to a normalized linear blend.
func Slerp(a, b Quat, t float64) Quat {
	dot := float64(a.Dot(b))
	if dot < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		dot = -dot
	}
	if dot > 0.9995 {
		ft := float32(t)
		return Quat{
			a.X + (b.X-a.X)*ft,
			a.Y + (b.Y-a.Y)*ft,
			a.Z + (b.Z-a.Z)*ft,
			a.W + (b.W-a.W)*ft,
		}.Normalized()
	}
	theta := math.Acos(dot)
	sin := math.Sin(theta)
	wa := float32(math.Sin((1-t)*theta) / sin)
	wb := float32(math.Sin(t*theta) / sin)
	return Quat{
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
		a.W*wa + b.W*wb,
	}.Normalized()
}

// LookRotation builds the rotation whose forward axis points along forward
// and whose up axis is up re-orthogonalized against forward. Degenerate
// inputs substitute the canonical axes.
func LookRotation(forward, up Vec3) Quat {
	f := forward.Normalized()
	if f.IsNearZero() {
		f = Forward
	}
	u := up.Normalized()
	if u.IsNearZero() {
		u = Up
	}
	r := u.Cross(f)
	if r.IsNearZero() {
		// up is parallel to forward; pick a fallback secondary axis.
		u = Up
		r = u.Cross(f)
		if r.IsNearZero() {
			u = Forward
			r = u.Cross(f)
		}
	}
	r = r.Normalized()
	u = f.Cross(r)
	return quatFromBasis(r, u, f)
}

// quatFromBasis converts an orthonormal basis (right, up, forward as the
// columns of a rotation matrix) to a quaternion using Shepperd's method.
func quatFromBasis(r, u, f Vec3) Quat {
	m00, m01, m02 := float64(r.X), float64(u.X), float64(f.X)
	m10, m11, m12 := float64(r.Y), float64(u.Y), float64(f.Y)
	m20, m21, m22 := float64(r.Z), float64(u.Z), float64(f.Z)

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{
			float32((m21 - m12) / s),
			float32((m02 - m20) / s),
			float32((m10 - m01) / s),
			float32(s / 4),
		}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{
			float32(s / 4),
			float32((m01 + m10) / s),
			float32((m02 + m20) / s),
			float32((m21 - m12) / s),
		}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{
			float32((m01 + m10) / s),
			float32(s / 4),
			float32((m12 + m21) / s),
			float32((m02 - m20) / s),
		}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{
			float32((m02 + m20) / s),
			float32((m12 + m21) / s),
			float32(s / 4),
			float32((m10 - m01) / s),
		}
	}
	return q.Normalized()
}
