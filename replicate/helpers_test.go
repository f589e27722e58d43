package replicate

import (
	"errors"

	"skelcast/protocol"
	"skelcast/skeleton"
)

type fakeConn struct {
	sent   [][]byte
	closed bool
	fail   bool
}

func (f *fakeConn) Send(b []byte) error {
	if f.fail {
		return errors.New("conn gone")
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	f.sent = append(f.sent, cp)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

// loopConn feeds every send straight into a receiver, a zero-latency wire.
type loopConn struct {
	recv *Receiver
}

func (l *loopConn) Send(b []byte) error {
	l.recv.OnReceive(b)
	return nil
}

func (l *loopConn) Close() error { return nil }

// manualClock is a test clock advanced by hand.
type manualClock struct {
	now float64
}

func (c *manualClock) Clock() Clock {
	return func() float64 { return c.now }
}

// rig builds the small test hierarchy used across this package:
// hips → spine → (arm_l, arm_r), hips → leg_l.
func rig() *skeleton.Skeleton {
	s := skeleton.New("hips")
	spine := s.AddJoint(0, "spine")
	s.AddJoint(spine, "arm_l")
	s.AddJoint(spine, "arm_r")
	s.AddJoint(0, "leg_l")
	return s
}

// frame captures and encodes one pose frame from skel.
func frame(objectID uint32, skel *skeleton.Skeleton, ts float64, includePaths bool) []byte {
	snap := Capture(skel, skel.Enumerate(), ts, includePaths)
	b, err := protocol.EncodeMessage(protocol.WireMessage{ObjectID: objectID, Snapshot: snap})
	if err != nil {
		panic(err)
	}
	return b
}
