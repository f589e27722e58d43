package replicate

import (
	"github.com/sirupsen/logrus"

	"skelcast/protocol"
)

// Relay runs on the authoritative host: it validates that pose frames come
// from the registered owner of the claimed object and re-broadcasts them
// verbatim to every other peer. No transformation, no buffering.
//
// All state is confined to the Run goroutine; everything reaches it through
// the Inbox.
type Relay struct {
	Inbox chan any

	peers  map[string]Conn
	owners map[uint32]string // object id -> owner peer id
	quit   chan struct{}
}

func NewRelay() *Relay {
	return &Relay{
		Inbox:  make(chan any, 256),
		peers:  make(map[string]Conn),
		owners: make(map[uint32]string),
		quit:   make(chan struct{}),
	}
}

func (r *Relay) Run() {
	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		}
	}
}

func (r *Relay) Stop() {
	close(r.quit)
}

func (r *Relay) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case PeerJoin:
		r.peers[c.PeerID] = c.Conn
	case PeerLeave:
		r.removePeer(c.PeerID)
	case ClaimObject:
		if owner, taken := r.owners[c.ObjectID]; taken && owner != c.PeerID {
			logrus.Warnf("peer %s claimed object %d already owned by %s", c.PeerID, c.ObjectID, owner)
			return
		}
		r.owners[c.ObjectID] = c.PeerID
	case ReleaseObject:
		if r.owners[c.ObjectID] == c.PeerID {
			delete(r.owners, c.ObjectID)
		}
	case Frame:
		r.handleFrame(c)
	}
}

// handleFrame drops non-owner frames silently: a mismatch is an expected
// filter condition under fan-out, not an error to report to the sender.
func (r *Relay) handleFrame(f Frame) {
	id, err := protocol.PeekObjectID(f.Data)
	if err != nil {
		logrus.Debugf("drop unroutable frame from %s: %v", f.PeerID, err)
		return
	}
	owner, ok := r.owners[id]
	if !ok || owner != f.PeerID {
		return
	}

	var failed []string
	for peerID, conn := range r.peers {
		if peerID == f.PeerID {
			continue
		}
		if err := conn.Send(f.Data); err != nil {
			failed = append(failed, peerID)
		}
	}
	for _, peerID := range failed {
		r.removePeer(peerID)
	}
}

func (r *Relay) removePeer(peerID string) {
	if conn, ok := r.peers[peerID]; ok {
		_ = conn.Close()
		delete(r.peers, peerID)
	}
	for objectID, owner := range r.owners {
		if owner == peerID {
			delete(r.owners, objectID)
		}
	}
}
