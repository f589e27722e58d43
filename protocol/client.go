package protocol

// Control messages sent by a peer.

type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional name
}

// Claim announces that this peer owns the replicated skeleton with the given
// object id. The relay only fans out pose frames from the registered owner.
type Claim struct {
	ObjectID uint32 `json:"objectId"`
}

// Despawn withdraws a claim when the replicated entity is destroyed.
type Despawn struct {
	ObjectID uint32 `json:"objectId"`
}
