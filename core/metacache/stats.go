package metacache

import "sync/atomic"

// Stats is a point-in-time copy of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Refreshes uint64 // entries found but stale
	Errors    uint64 // store failures
}

// HitRatio returns Hits / (Hits + Misses + Refreshes), or 0 with no lookups.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses + s.Refreshes
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type counters struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	refreshes atomic.Uint64
	errors    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Refreshes: c.refreshes.Load(),
		Errors:    c.errors.Load(),
	}
}
