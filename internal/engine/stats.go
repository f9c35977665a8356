package engine

import (
	"sync/atomic"
)

// Stats holds cumulative counters of an Engine.
type Stats struct {
	Scans   int64
	Items   int64
	Matched int64
	// Skipped counts paths whose tags could not be read.
	Skipped int64
}

type stats struct {
	scans   atomic.Int64
	items   atomic.Int64
	matched atomic.Int64
	skipped atomic.Int64
}

func (s *stats) addScan(items, matched int) {
	s.scans.Add(1)
	s.items.Add(int64(items))
	s.matched.Add(int64(matched))
}

func (s *stats) addSkipped(n int) {
	s.skipped.Add(int64(n))
}

func (s *stats) snapshot() Stats {
	return Stats{
		Scans:   s.scans.Load(),
		Items:   s.items.Load(),
		Matched: s.matched.Load(),
		Skipped: s.skipped.Load(),
	}
}
