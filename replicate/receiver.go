package replicate

import (
	"github.com/sirupsen/logrus"

	"skelcast/mathx"
	"skelcast/protocol"
	"skelcast/skeleton"
)

// ReceiverStats counts what happened to incoming frames. Dropped covers
// identity mismatches, own-broadcast echoes, and malformed snapshots.
type ReceiverStats struct {
	Accepted   uint64
	Dropped    uint64
	Reconciled uint64 // full path resolutions performed
	FastPath   uint64 // manifest matched the cached one, resolution skipped
}

// Receiver consumes pose frames for one replicated skeleton on a non-owning
// peer: it filters by object id, re-stamps with the local clock, reconciles
// joint order against the local skeleton, and enqueues onto the buffer.
type Receiver struct {
	objectID uint32
	owned    bool
	skel     *skeleton.Skeleton
	enum     skeleton.Enumeration
	manifest skeleton.Manifest
	buf      *SnapshotBuffer
	clock    Clock

	// remap maps incoming wire index to local enumeration position, -1 when
	// the incoming joint has no local counterpart.
	remap       []int
	cachedPaths []string
	verified    bool
	warned      bool

	jitter      *JitterTracker
	hasArrival  bool
	lastArrival float64
	stats       ReceiverStats
}

func NewReceiver(objectID uint32, skel *skeleton.Skeleton, buf *SnapshotBuffer, clock Clock) *Receiver {
	return &Receiver{
		objectID: objectID,
		skel:     skel,
		enum:     skel.Enumerate(),
		manifest: skel.BuildManifest(),
		buf:      buf,
		clock:    clock,
		jitter:   NewJitterTracker(0),
	}
}

// SetOwned marks this peer as the authority for the object. An owner never
// applies its own broadcast pose, so every frame is dropped while set.
func (r *Receiver) SetOwned(owned bool) {
	r.owned = owned
}

func (r *Receiver) Stats() ReceiverStats {
	return r.stats
}

// Jitter exposes the observed inter-arrival statistics so an embedder can
// check the configured interpolation delay actually covers network jitter.
func (r *Receiver) Jitter() *JitterTracker {
	return r.jitter
}

// OnReceive handles one frame from the transport. All failure modes are
// filters, not errors: wrong identity, own echo, and malformed snapshots are
// dropped without reaching the buffer.
func (r *Receiver) OnReceive(data []byte) {
	m, err := protocol.DecodeMessage(data)
	if err != nil {
		logrus.Debugf("drop undecodable pose frame: %v", err)
		r.stats.Dropped++
		return
	}
	if m.ObjectID != r.objectID || r.owned {
		r.stats.Dropped++
		return
	}
	snap := m.Snapshot
	if !snap.Valid() {
		r.stats.Dropped++
		return
	}

	// Sender and receiver clocks are unrelated; trusting the embedded
	// timestamp can park every snapshot permanently in the future and stall
	// interpolation. Always re-stamp with the local clock.
	now := r.clock()
	snap.Timestamp = now
	if r.hasArrival {
		r.jitter.Record(now - r.lastArrival)
	}
	r.hasArrival = true
	r.lastArrival = now

	r.reconcile(&snap)
	r.buf.Push(r.reorder(snap))
	r.stats.Accepted++
}

// reconcile refreshes the wire-index remap. Order is trusted only after a
// manifest-carrying frame resolves fully; until then incoming joints are
// assumed to already be in local enumeration order.
func (r *Receiver) reconcile(snap *protocol.PoseSnapshot) {
	n := snap.JointCount()
	if snap.JointPaths == nil {
		if !r.verified || len(r.remap) != n {
			r.identityRemap(n)
		}
		return
	}

	if r.verified && pathsEqual(snap.JointPaths, r.cachedPaths) {
		r.stats.FastPath++
		return
	}

	remap := make([]int, n)
	unresolved := 0
	for i, p := range snap.JointPaths {
		pos, ok := r.manifest.Resolve(p)
		if !ok {
			remap[i] = -1
			unresolved++
			continue
		}
		remap[i] = pos
	}
	r.stats.Reconciled++

	if unresolved > 0 {
		if !r.warned {
			r.warned = true
			logrus.Warnf("object %d: %d of %d joint paths unresolvable, re-enumerating local skeleton",
				r.objectID, unresolved, n)
		}
		// Fresh enumeration; accept that order may be wrong until the next
		// manifest-carrying frame arrives.
		r.enum = r.skel.Enumerate()
		r.manifest = r.skel.BuildManifest()
		r.identityRemap(n)
		return
	}

	r.remap = remap
	r.cachedPaths = append([]string(nil), snap.JointPaths...)
	r.verified = true
}

func (r *Receiver) identityRemap(n int) {
	local := len(r.enum.Indices)
	r.remap = make([]int, n)
	for i := range r.remap {
		if i < local {
			r.remap[i] = i
		} else {
			r.remap[i] = -1
		}
	}
	r.verified = false
	r.cachedPaths = nil
}

// reorder rewrites the snapshot's joint arrays into local enumeration order.
// Local joints with no incoming counterpart hold their current pose, so a
// partial manifest never snaps limbs to the origin.
func (r *Receiver) reorder(snap protocol.PoseSnapshot) protocol.PoseSnapshot {
	local := len(r.enum.Indices)
	out := snap
	out.JointPos = make([]mathx.Vec3, local)
	out.JointForward = make([]mathx.Vec3, local)
	out.JointUp = make([]mathx.Vec3, local)
	out.JointPaths = nil

	for pos, idx := range r.enum.Indices {
		j := r.skel.Joint(idx)
		out.JointPos[pos] = j.LocalPos
		out.JointForward[pos], out.JointUp[pos] = mathx.CompressRotation(j.LocalRot)
	}
	for i, pos := range r.remap {
		if pos < 0 || pos >= local || i >= snap.JointCount() {
			continue
		}
		out.JointPos[pos] = snap.JointPos[i]
		out.JointForward[pos] = snap.JointForward[i]
		out.JointUp[pos] = snap.JointUp[i]
	}
	return out
}

func pathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
