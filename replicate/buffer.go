package replicate

import "skelcast/protocol"

// SnapshotBuffer is a small time-ordered window of recent snapshots, oldest
// first. Timestamps are local receive times, so they are non-decreasing as
// long as the transport never reorders delivered frames.
type SnapshotBuffer struct {
	capacity int
	entries  []protocol.PoseSnapshot
}

func NewSnapshotBuffer(capacity int) *SnapshotBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SnapshotBuffer{
		capacity: capacity,
		entries:  make([]protocol.PoseSnapshot, 0, capacity),
	}
}

func (b *SnapshotBuffer) Len() int {
	return len(b.entries)
}

func (b *SnapshotBuffer) At(i int) protocol.PoseSnapshot {
	return b.entries[i]
}

// Push appends a snapshot, evicting the oldest entry when full.
func (b *SnapshotBuffer) Push(s protocol.PoseSnapshot) {
	if len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, s)
}

// Advance discards leading entries that playback has moved past, keeping
// the newest pair that brackets the playback instant whenever one exists.
func (b *SnapshotBuffer) Advance(playback float64) {
	for len(b.entries) >= 2 && b.entries[1].Timestamp <= playback {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
}

// Clear drops all buffered snapshots (entity despawned or disconnected).
func (b *SnapshotBuffer) Clear() {
	b.entries = b.entries[:0]
}
