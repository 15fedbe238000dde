package app

import (
	"sync/atomic"

	"github.com/amjadrushdan/waktu-solat/internal/prayer"
)

// Snapshot is the process-wide view of the current city and its prayer
// times for today. It is immutable; updates install a fresh Snapshot via
// an atomic pointer swap so concurrent readers always see either the old
// or the new complete set, never a mix.
type Snapshot struct {
	City  string
	Times prayer.TimeSet
}

// state wraps the atomic snapshot reference. Writes are confined to the
// fetch/city-switch path (single writer); the refresh timer, notification
// scheduler, and status query only read.
type state struct {
	p atomic.Pointer[Snapshot]
}

func (s *state) load() *Snapshot {
	return s.p.Load()
}

func (s *state) store(snap Snapshot) {
	s.p.Store(&snap)
}
