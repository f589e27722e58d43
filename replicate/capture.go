package replicate

import (
	"skelcast/mathx"
	"skelcast/protocol"
	"skelcast/skeleton"
)

// Capture samples the skeleton's current pose: the character placement in
// world space, every enumerated joint in parent-local space, rotations
// compressed to forward/up pairs. Pure read; the skeleton is not touched.
func Capture(skel *skeleton.Skeleton, enum skeleton.Enumeration, now float64, includePaths bool) protocol.PoseSnapshot {
	n := len(enum.Indices)
	s := protocol.PoseSnapshot{
		Timestamp:    now,
		RootPos:      skel.RootPos,
		JointPos:     make([]mathx.Vec3, n),
		JointForward: make([]mathx.Vec3, n),
		JointUp:      make([]mathx.Vec3, n),
	}
	s.RootForward, s.RootUp = mathx.CompressRotation(skel.RootRot)

	for pos, idx := range enum.Indices {
		j := skel.Joint(idx)
		s.JointPos[pos] = j.LocalPos
		s.JointForward[pos], s.JointUp[pos] = mathx.CompressRotation(j.LocalRot)
	}
	if includePaths {
		s.JointPaths = append([]string(nil), enum.Paths...)
	}
	return s
}
