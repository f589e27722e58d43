package protocol

import "skelcast/mathx"

// PoseSnapshot is one full sample of a skeleton's pose. Root fields are the
// character's world placement; the joint arrays hold every enumerated joint
// (including the root joint's own local frame) in parent-local space, indexed
// by enumeration order. Rotations travel compressed as forward/up pairs.
type PoseSnapshot struct {
	Timestamp float64

	RootPos     mathx.Vec3
	RootForward mathx.Vec3
	RootUp      mathx.Vec3

	JointPos     []mathx.Vec3
	JointForward []mathx.Vec3
	JointUp      []mathx.Vec3

	// JointPaths, when non-nil, carries the sender's enumeration manifest so
	// the receiver can reconcile joint order. Optional per message.
	JointPaths []string
}

func (s *PoseSnapshot) JointCount() int {
	return len(s.JointPos)
}

// Valid reports whether the snapshot can be applied: non-empty joint arrays
// of matching length, and a manifest (when present) matching that length.
func (s *PoseSnapshot) Valid() bool {
	n := len(s.JointPos)
	if n == 0 {
		return false
	}
	if len(s.JointForward) != n || len(s.JointUp) != n {
		return false
	}
	if s.JointPaths != nil && len(s.JointPaths) != n {
		return false
	}
	return true
}

// WireMessage tags a snapshot with the replicated object it belongs to.
// Built by the sender, consumed once by the relay and once per receiver.
type WireMessage struct {
	ObjectID uint32
	Snapshot PoseSnapshot
}
