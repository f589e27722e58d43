package mathx

// CompressRotation encodes a rotation as the pair of unit vectors it maps the
// canonical forward and up axes to. Two vectors cost more than a quaternion
// but decode without sign-ambiguity handling on the other side.
func CompressRotation(q Quat) (forward, up Vec3) {
	return q.Rotate(Forward), q.Rotate(Up)
}

// DecompressRotation rebuilds a rotation from its compressed form. Near-zero
// inputs fall back to the canonical axes, so a zeroed wire payload decodes to
// the identity rather than garbage. Pure twist about forward combined with a
// degenerate up collapses to the canonical up; that loss is accepted.
func DecompressRotation(forward, up Vec3) Quat {
	if forward.IsNearZero() {
		forward = Forward
	}
	if up.IsNearZero() {
		up = Up
	}
	return LookRotation(forward, up)
}
