package server

import (
	"net/netip"
	"time"

	"spaceship-arena/protocol"
)

// sendLoop pushes ALL_UPDATE every UpdateInterval while the match runs,
// plus TIME_SYNC each time the match clock passes a sync boundary.
// Spectators get a snapshot on the same beat.
func (s *Server) sendLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.UpdateInterval)
	defer ticker.Stop()

	for s.running.Load() {
		<-ticker.C
		if !s.running.Load() {
			return
		}

		s.mu.Lock()
		if s.phase != PhaseInProgress {
			s.mu.Unlock()
			continue
		}
		now := s.clock.Now()
		ships := s.world.Ships()
		var timeSync *protocol.TimeSync
		if now >= s.nextSync {
			s.nextSync += float32(s.cfg.SyncInterval.Seconds())
			timeSync = &protocol.TimeSync{Timestamp: now, Players: ships}
		}
		addrs := s.slots.Addrs()
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.sendAll(&protocol.AllUpdate{Timestamp: now, Players: ships}, addrs)
		if timeSync != nil {
			s.sendAll(timeSync, addrs)
		}
		s.hub.BroadcastSnapshot(snap)
	}
}

// sendTo writes one datagram; failures are counted and logged, never fatal
func (s *Server) sendTo(m protocol.Message, to netip.AddrPort) {
	s.write(protocol.Encode(m), m.Command(), to)
}

// sendAll encodes m once and writes it to every address
func (s *Server) sendAll(m protocol.Message, to []netip.AddrPort) {
	buf := protocol.Encode(m)
	for _, addr := range to {
		s.write(buf, m.Command(), addr)
	}
}

func (s *Server) write(buf []byte, cmd protocol.Command, to netip.AddrPort) {
	if _, err := s.conn.WriteToUDPAddrPort(buf, to); err != nil {
		s.stats.SendErrs.Add(1)
		s.logger.Printf("send %s to %s: %v", cmd, to, err)
		return
	}
	s.stats.Out.Add(1)
}
