package replicate

// Conn is the outbound half of the transport: a best-effort, sequenced,
// unreliable channel. Send must not block on the remote peer; delivery is
// fire-and-forget and a returned error means the peer is gone, not that the
// frame should be retried.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Commands accepted by the Relay's inbox.

// PeerJoin registers a connected peer for fan-out.
type PeerJoin struct {
	PeerID string
	Conn   Conn
}

// PeerLeave drops a peer and releases every object it owned.
type PeerLeave struct {
	PeerID string
}

// ClaimObject registers PeerID as the owner of ObjectID. Frames for an
// object are only fanned out when they come from its registered owner.
type ClaimObject struct {
	PeerID   string
	ObjectID uint32
}

// ReleaseObject removes an ownership registration (entity despawned).
type ReleaseObject struct {
	PeerID   string
	ObjectID uint32
}

// Frame is a received pose frame to validate and re-broadcast.
type Frame struct {
	PeerID string
	Data   []byte
}
