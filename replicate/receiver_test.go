package replicate

import (
	"fmt"
	"testing"

	"skelcast/mathx"
	"skelcast/protocol"
	"skelcast/skeleton"
)

func TestReceiverDropsWrongObjectID(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	r := NewReceiver(1, rig(), buf, clk.Clock())

	r.OnReceive(frame(2, rig(), 0, false))
	if buf.Len() != 0 {
		t.Fatalf("frame for object 2 reached the buffer of object 1")
	}
	if s := r.Stats(); s.Dropped != 1 || s.Accepted != 0 {
		t.Fatalf("stats = %+v, want 1 dropped, 0 accepted", s)
	}
}

func TestReceiverDropsOwnEcho(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	r := NewReceiver(1, rig(), buf, clk.Clock())
	r.SetOwned(true)

	r.OnReceive(frame(1, rig(), 0, false))
	if buf.Len() != 0 {
		t.Fatalf("owner applied its own broadcast pose")
	}
}

func TestReceiverDropsMalformedFrame(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	r := NewReceiver(1, rig(), buf, clk.Clock())

	r.OnReceive([]byte{1, 2, 3})
	if buf.Len() != 0 {
		t.Fatalf("malformed frame reached the buffer")
	}
}

func TestReceiverDropsEmptyJointArrays(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	r := NewReceiver(1, rig(), buf, clk.Clock())

	b, err := protocol.EncodeMessage(protocol.WireMessage{ObjectID: 1})
	if err != nil {
		t.Fatalf("encode empty snapshot: %v", err)
	}
	r.OnReceive(b)
	if buf.Len() != 0 {
		t.Fatalf("snapshot with empty joint arrays was enqueued")
	}
}

func TestReceiverRestampsWithLocalClock(t *testing.T) {
	clk := &manualClock{now: 5}
	buf := NewSnapshotBuffer(5)
	r := NewReceiver(1, rig(), buf, clk.Clock())

	// Sender clock says 1000; ours says 5. Trusting the sender would park
	// this snapshot 995 seconds in the future.
	r.OnReceive(frame(1, rig(), 1000, false))
	if buf.Len() != 1 {
		t.Fatalf("frame not enqueued")
	}
	if got := buf.At(0).Timestamp; got != 5 {
		t.Fatalf("buffered timestamp = %f, want local receive time 5", got)
	}
}

func TestReceiverFastPathOnRepeatedManifest(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	r := NewReceiver(1, rig(), buf, clk.Clock())

	r.OnReceive(frame(1, rig(), 0, true))
	r.OnReceive(frame(1, rig(), 1, true))

	s := r.Stats()
	if s.Reconciled != 1 {
		t.Fatalf("full resolutions = %d, want 1 (second manifest should fast-path)", s.Reconciled)
	}
	if s.FastPath != 1 {
		t.Fatalf("fast-path hits = %d, want 1", s.FastPath)
	}
}

func TestReceiverReordersByManifest(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	local := rig()
	r := NewReceiver(1, local, buf, clk.Clock())

	// A sender whose sibling order differs: leg_l enumerates before spine.
	remote := skeleton.New("hips")
	remote.AddJoint(0, "leg_l")
	spine := remote.AddJoint(0, "spine")
	remote.AddJoint(spine, "arm_l")
	remote.AddJoint(spine, "arm_r")
	legPos := mathx.Vec3{X: 0.7}
	remote.SetLocal(1, legPos, mathx.Identity)

	r.OnReceive(frame(1, remote, 0, true))
	if buf.Len() != 1 {
		t.Fatalf("frame not enqueued")
	}

	// Locally leg_l is enumeration position 4.
	got := buf.At(0).JointPos[4]
	if d := got.Sub(legPos).Length(); d > 1e-6 {
		t.Fatalf("leg_l position after reorder = %v, want %v", got, legPos)
	}
}

func TestReceiverManifestGrowthFallsBack(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)

	chain := func(n int) *skeleton.Skeleton {
		s := skeleton.New("j0")
		for i := 1; i < n; i++ {
			s.AddJoint(i-1, fmt.Sprintf("j%d", i))
		}
		return s
	}

	r := NewReceiver(1, chain(40), buf, clk.Clock())
	r.OnReceive(frame(1, chain(40), 0, true))
	// Topology grows 40 → 41; the extra path is unresolvable locally. Must
	// fall back to re-enumeration without error and still enqueue.
	r.OnReceive(frame(1, chain(41), 1, true))

	if buf.Len() != 2 {
		t.Fatalf("buffer length = %d, want 2 (fallback frame still enqueued)", buf.Len())
	}
	if s := r.Stats(); s.Accepted != 2 {
		t.Fatalf("accepted = %d, want 2", s.Accepted)
	}
}

func TestReceiverHoldsUnmappedJoints(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	local := rig()
	// Give arm_r a distinctive current pose; the remote rig below lacks it.
	held := mathx.Vec3{Y: 0.9}
	local.SetLocal(3, held, mathx.Identity)
	r := NewReceiver(1, local, buf, clk.Clock())

	remote := skeleton.New("hips")
	spine := remote.AddJoint(0, "spine")
	remote.AddJoint(spine, "arm_l")

	r.OnReceive(frame(1, remote, 0, true))
	if buf.Len() != 1 {
		t.Fatalf("frame not enqueued")
	}
	got := buf.At(0).JointPos[3]
	if d := got.Sub(held).Length(); d > 1e-6 {
		t.Fatalf("unmapped arm_r = %v, want held pose %v", got, held)
	}
}

func TestReceiverRecordsJitter(t *testing.T) {
	clk := &manualClock{}
	buf := NewSnapshotBuffer(5)
	r := NewReceiver(1, rig(), buf, clk.Clock())

	r.OnReceive(frame(1, rig(), 0, false))
	clk.now = 0.033
	r.OnReceive(frame(1, rig(), 0, false))
	clk.now = 0.071
	r.OnReceive(frame(1, rig(), 0, false))

	if got := r.Jitter().Count(); got != 2 {
		t.Fatalf("jitter samples = %d, want 2", got)
	}
	sum, err := r.Jitter().Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Mean < 0.03 || sum.Mean > 0.04 {
		t.Fatalf("mean inter-arrival = %f, want ≈0.0355", sum.Mean)
	}
}
