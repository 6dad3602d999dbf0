package server

import "sync/atomic"

// Stats counts datagram traffic. Fields are safe to read at any time.
type Stats struct {
	In        atomic.Uint64
	Out       atomic.Uint64
	Malformed atomic.Uint64 // failed to decode
	Stale     atomic.Uint64 // STATE_UPDATE not newer than the last one
	Rejected  atomic.Uint64 // unknown sender, or no free slot
	SendErrs  atomic.Uint64
}

// StatsSnapshot is a plain copy of Stats for reporting
type StatsSnapshot struct {
	In        uint64 `json:"in"`
	Out       uint64 `json:"out"`
	Malformed uint64 `json:"malformed"`
	Stale     uint64 `json:"stale"`
	Rejected  uint64 `json:"rejected"`
	SendErrs  uint64 `json:"send_errors"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		In:        s.In.Load(),
		Out:       s.Out.Load(),
		Malformed: s.Malformed.Load(),
		Stale:     s.Stale.Load(),
		Rejected:  s.Rejected.Load(),
		SendErrs:  s.SendErrs.Load(),
	}
}
