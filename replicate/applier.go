package replicate

import (
	"math"

	"skelcast/mathx"
	"skelcast/skeleton"
)

// timeEpsilon guards the blend-fraction division when two buffered
// snapshots carry (nearly) identical timestamps.
const timeEpsilon = 1e-9

// Applier reconstructs a smooth pose from the buffer once per display tick:
// it plays a fixed delay behind the local clock, finds the snapshot pair
// bracketing that instant, and blends between them onto the skeleton.
type Applier struct {
	skel  *skeleton.Skeleton
	enum  skeleton.Enumeration
	buf   *SnapshotBuffer
	clock Clock
	delay float64
}

func NewApplier(skel *skeleton.Skeleton, buf *SnapshotBuffer, clock Clock, delay float64) *Applier {
	return &Applier{
		skel:  skel,
		enum:  skel.Enumerate(),
		buf:   buf,
		clock: clock,
		delay: delay,
	}
}

// Tick applies the interpolated pose for the current playback instant.
// Empty buffer: no-op, the skeleton holds its last applied pose. One entry:
// degenerate blend, effectively a snap. Two or more: normal interpolation.
func (a *Applier) Tick() {
	if a.buf.Len() == 0 {
		return
	}
	playback := a.clock() - a.delay
	a.buf.Advance(playback)

	lhs := a.buf.At(0)
	rhs := lhs
	if a.buf.Len() > 1 {
		rhs = a.buf.At(1)
	}
	t := mathx.Clamp01((playback - lhs.Timestamp) / math.Max(timeEpsilon, rhs.Timestamp-lhs.Timestamp))
	ft := float32(t)

	rootRot := mathx.Slerp(
		mathx.DecompressRotation(lhs.RootForward, lhs.RootUp),
		mathx.DecompressRotation(rhs.RootForward, rhs.RootUp),
		t,
	)
	a.skel.SetWorldRoot(mathx.Lerp(lhs.RootPos, rhs.RootPos, ft), rootRot)

	n := len(a.enum.Indices)
	if c := lhs.JointCount(); c < n {
		n = c
	}
	if c := rhs.JointCount(); c < n {
		n = c
	}
	for pos := 0; pos < n; pos++ {
		idx := a.enum.Indices[pos]
		rot := mathx.Slerp(
			mathx.DecompressRotation(lhs.JointForward[pos], lhs.JointUp[pos]),
			mathx.DecompressRotation(rhs.JointForward[pos], rhs.JointUp[pos]),
			t,
		)
		a.skel.SetLocal(idx, mathx.Lerp(lhs.JointPos[pos], rhs.JointPos[pos], ft), rot)
	}
}

// BlendFraction reports the interpolation fraction the next Tick would use,
// without touching the buffer or the skeleton.
func (a *Applier) BlendFraction() float64 {
	if a.buf.Len() == 0 {
		return 0
	}
	playback := a.clock() - a.delay
	lhs := a.buf.At(0)
	rhs := lhs
	if a.buf.Len() > 1 {
		rhs = a.buf.At(1)
	}
	return mathx.Clamp01((playback - lhs.Timestamp) / math.Max(timeEpsilon, rhs.Timestamp-lhs.Timestamp))
}
