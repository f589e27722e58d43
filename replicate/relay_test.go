package replicate

import "testing"

// Tests drive handleCommand directly; the Run loop only shuttles commands
// from the Inbox to it.

func TestRelayFansOutToOtherPeers(t *testing.T) {
	r := NewRelay()
	owner := &fakeConn{}
	obsA := &fakeConn{}
	obsB := &fakeConn{}
	r.handleCommand(PeerJoin{PeerID: "owner", Conn: owner})
	r.handleCommand(PeerJoin{PeerID: "a", Conn: obsA})
	r.handleCommand(PeerJoin{PeerID: "b", Conn: obsB})
	r.handleCommand(ClaimObject{PeerID: "owner", ObjectID: 1})

	data := frame(1, rig(), 0, false)
	r.handleCommand(Frame{PeerID: "owner", Data: data})

	if len(obsA.sent) != 1 || len(obsB.sent) != 1 {
		t.Fatalf("observers got (%d, %d) frames, want (1, 1)", len(obsA.sent), len(obsB.sent))
	}
	if len(owner.sent) != 0 {
		t.Fatalf("frame echoed back to its sender")
	}
	if string(obsA.sent[0]) != string(data) {
		t.Fatalf("relayed frame was not verbatim")
	}
}

func TestRelayDropsNonOwnerFrames(t *testing.T) {
	r := NewRelay()
	obs := &fakeConn{}
	r.handleCommand(PeerJoin{PeerID: "owner", Conn: &fakeConn{}})
	r.handleCommand(PeerJoin{PeerID: "imposter", Conn: &fakeConn{}})
	r.handleCommand(PeerJoin{PeerID: "obs", Conn: obs})
	r.handleCommand(ClaimObject{PeerID: "owner", ObjectID: 1})

	r.handleCommand(Frame{PeerID: "imposter", Data: frame(1, rig(), 0, false)})
	if len(obs.sent) != 0 {
		t.Fatalf("non-owner frame was fanned out")
	}

	// Unclaimed object ids are dropped the same way.
	r.handleCommand(Frame{PeerID: "owner", Data: frame(2, rig(), 0, false)})
	if len(obs.sent) != 0 {
		t.Fatalf("frame for unclaimed object was fanned out")
	}
}

func TestRelayRejectsCompetingClaim(t *testing.T) {
	r := NewRelay()
	obs := &fakeConn{}
	r.handleCommand(PeerJoin{PeerID: "first", Conn: &fakeConn{}})
	r.handleCommand(PeerJoin{PeerID: "second", Conn: &fakeConn{}})
	r.handleCommand(PeerJoin{PeerID: "obs", Conn: obs})
	r.handleCommand(ClaimObject{PeerID: "first", ObjectID: 1})
	r.handleCommand(ClaimObject{PeerID: "second", ObjectID: 1})

	r.handleCommand(Frame{PeerID: "second", Data: frame(1, rig(), 0, false)})
	if len(obs.sent) != 0 {
		t.Fatalf("competing claim displaced the registered owner")
	}
	r.handleCommand(Frame{PeerID: "first", Data: frame(1, rig(), 0, false)})
	if len(obs.sent) != 1 {
		t.Fatalf("registered owner's frame not fanned out")
	}
}

func TestRelayPeerLeaveReleasesOwnership(t *testing.T) {
	r := NewRelay()
	owner := &fakeConn{}
	r.handleCommand(PeerJoin{PeerID: "owner", Conn: owner})
	r.handleCommand(ClaimObject{PeerID: "owner", ObjectID: 1})
	r.handleCommand(PeerLeave{PeerID: "owner"})

	if !owner.closed {
		t.Fatalf("leaving peer's conn not closed")
	}
	if len(r.owners) != 0 {
		t.Fatalf("ownership registry not emptied on leave: %v", r.owners)
	}
}

func TestRelayReleaseObject(t *testing.T) {
	r := NewRelay()
	obs := &fakeConn{}
	r.handleCommand(PeerJoin{PeerID: "owner", Conn: &fakeConn{}})
	r.handleCommand(PeerJoin{PeerID: "obs", Conn: obs})
	r.handleCommand(ClaimObject{PeerID: "owner", ObjectID: 1})
	r.handleCommand(ReleaseObject{PeerID: "owner", ObjectID: 1})

	r.handleCommand(Frame{PeerID: "owner", Data: frame(1, rig(), 0, false)})
	if len(obs.sent) != 0 {
		t.Fatalf("frame for despawned object was fanned out")
	}
}

func TestRelayPrunesFailedConns(t *testing.T) {
	r := NewRelay()
	dead := &fakeConn{fail: true}
	live := &fakeConn{}
	r.handleCommand(PeerJoin{PeerID: "owner", Conn: &fakeConn{}})
	r.handleCommand(PeerJoin{PeerID: "dead", Conn: dead})
	r.handleCommand(PeerJoin{PeerID: "live", Conn: live})
	r.handleCommand(ClaimObject{PeerID: "owner", ObjectID: 1})

	r.handleCommand(Frame{PeerID: "owner", Data: frame(1, rig(), 0, false)})
	if _, ok := r.peers["dead"]; ok {
		t.Fatalf("failed conn not pruned")
	}
	if !dead.closed {
		t.Fatalf("failed conn not closed")
	}
	if len(live.sent) != 1 {
		t.Fatalf("healthy peer got %d frames, want 1", len(live.sent))
	}
}

func TestRelayDropsUnroutableFrame(t *testing.T) {
	r := NewRelay()
	obs := &fakeConn{}
	r.handleCommand(PeerJoin{PeerID: "obs", Conn: obs})
	r.handleCommand(Frame{PeerID: "obs", Data: []byte{1, 2}})
	if len(obs.sent) != 0 {
		t.Fatalf("unroutable frame was fanned out")
	}
}
