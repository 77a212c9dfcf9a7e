package metacache

import "time"

// Snapshot identifies the version of a file an entry was computed from.
type Snapshot struct {
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Matches reports whether two snapshots describe the same file version.
func (s Snapshot) Matches(other Snapshot) bool {
	return s.Size == other.Size && s.ModTime.Equal(other.ModTime)
}

// Entry is an immutable cached value together with the snapshot it belongs to.
type Entry[V any] struct {
	Snapshot Snapshot  `json:"snapshot"`
	Value    V         `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}
