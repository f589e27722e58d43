package protocol

import (
	"encoding/json"
)

// Control-plane message types carried in JSON envelopes. Pose snapshots do
// not use envelopes; they travel as fixed-layout binary frames (see wire.go).
const (
	MsgHello   = "hello"
	MsgWelcome = "welcome"
	MsgClaim   = "claim"
	MsgDespawn = "despawn"
)

// Replication tuning defaults.
const (
	DefaultSendRate    = 30   // snapshots per second from the owning peer
	DefaultInterpDelay = 0.05 // seconds of playback lag traded for smoothness
	DefaultBufferCap   = 5    // snapshots retained per replicated skeleton
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
