package replicate

import (
	"github.com/sirupsen/logrus"

	"skelcast/protocol"
	"skelcast/skeleton"
)

// Sender emits pose frames for the skeleton this peer owns. It is driven by
// the embedding application's loop via Tick; the rate gate is an elapsed-time
// check, not a blocking wait.
type Sender struct {
	objectID uint32
	skel     *skeleton.Skeleton
	enum     skeleton.Enumeration
	conn     Conn
	clock    Clock

	interval float64
	accum    float64
	sends    uint64

	// PathEvery controls how often the joint-path manifest rides along: the
	// first frame always carries it, then every PathEvery-th frame so late
	// joiners can reconcile. Zero means first frame only.
	PathEvery uint64
}

func NewSender(objectID uint32, skel *skeleton.Skeleton, conn Conn, clock Clock, rate float64) *Sender {
	if rate <= 0 {
		rate = protocol.DefaultSendRate
	}
	return &Sender{
		objectID:  objectID,
		skel:      skel,
		enum:      skel.Enumerate(),
		conn:      conn,
		clock:     clock,
		interval:  1 / rate,
		PathEvery: uint64(rate), // roughly once a second at the default rate
	}
}

// Refresh re-enumerates the skeleton and forces the manifest onto the next
// frame. Call after suspected topology changes.
func (s *Sender) Refresh() {
	s.enum = s.skel.Enumerate()
	s.sends = 0
}

// Tick accumulates elapsed time and sends at most one frame once a full
// send interval has elapsed. Fire-and-forget: a send error is logged and the
// frame dropped, matching the unreliable-channel contract.
func (s *Sender) Tick(dt float64) {
	s.accum += dt
	if s.accum < s.interval {
		return
	}
	s.accum -= s.interval
	if s.accum > s.interval {
		// A long frame stalls the loop; don't burst to catch up,
		// latest state wins.
		s.accum = s.interval
	}

	includePaths := s.sends == 0 || (s.PathEvery > 0 && s.sends%s.PathEvery == 0)
	snap := Capture(s.skel, s.enum, s.clock(), includePaths)
	b, err := protocol.EncodeMessage(protocol.WireMessage{ObjectID: s.objectID, Snapshot: snap})
	if err != nil {
		logrus.Errorf("encode pose frame for object %d: %v", s.objectID, err)
		return
	}
	s.sends++
	if err := s.conn.Send(b); err != nil {
		logrus.Warnf("send pose frame for object %d: %v", s.objectID, err)
	}
}
