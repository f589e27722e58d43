package protocol

// Welcome is the relay's reply to Hello.
type Welcome struct {
	PeerID   string  `json:"peerId"`
	SendRate float64 `json:"sendRate"`
}
