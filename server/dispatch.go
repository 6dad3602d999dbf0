package server

import (
	"errors"
	"net"
	"net/netip"
	"os"
	"time"

	"spaceship-arena/game"
	"spaceship-arena/protocol"
	"spaceship-arena/store"
)

// receiveLoop reads datagrams until the running flag clears. The read
// deadline bounds how long a stop request waits.
func (s *Server) receiveLoop() {
	defer s.wg.Done()
	buf := make([]byte, protocol.MaxDatagram)
	for s.running.Load() {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.PollInterval))
		n, addr, err := s.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Printf("receive: %v", err)
			continue
		}
		s.stats.In.Add(1)
		s.handle(buf[:n], canonical(addr))
	}
}

// handle decodes and applies one datagram. Nothing is ever sent back for
// a bad datagram.
func (s *Server) handle(data []byte, from netip.AddrPort) {
	msg, err := protocol.Decode(data)
	if err != nil {
		s.stats.Malformed.Add(1)
		s.logger.Printf("drop datagram from %s: %v", from, err)
		return
	}
	switch m := msg.(type) {
	case *protocol.ReqConnect:
		s.admit(from)
	case *protocol.StateUpdate:
		s.applyState(from, m)
	case *protocol.ReqFire:
		s.fire(from)
	}
}

func (s *Server) admit(from netip.AddrPort) {
	s.mu.Lock()
	idx, isNew, ok := s.slots.Assign(from)
	if !ok {
		s.mu.Unlock()
		s.stats.Rejected.Add(1)
		s.logger.Printf("server full, dropping connect from %s", from)
		return
	}
	start := false
	if isNew {
		s.world.Players[idx].Connected = true
		s.logger.Printf("%s joined as %s (%d/%d)", from, playerName(idx), s.slots.Len(), s.slots.capacity)
		if s.slots.Full() && s.phase == PhaseWaiting {
			s.startMatch()
			start = true
		}
	}
	inProgress := s.phase == PhaseInProgress
	addrs := s.slots.Addrs()
	s.mu.Unlock()

	s.sendTo(&protocol.RspConnect{Player: uint32(idx)}, from)
	if isNew {
		s.track(store.EvtJoin, idx, -1, 0)
	}
	switch {
	case start:
		s.logger.Printf("all %d players in, match %s starting", len(addrs), s.matchID)
		s.sendAll(&protocol.GameStart{}, addrs)
		s.track(store.EvtMatchStart, -1, -1, 0)
	case !isNew && inProgress:
		// the client missed GAME_START and is still retrying
		s.sendTo(&protocol.GameStart{}, from)
	}
}

func (s *Server) applyState(from netip.AddrPort, m *protocol.StateUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.slots.Lookup(from)
	if !ok {
		s.stats.Rejected.Add(1)
		return
	}
	if s.phase == PhaseEnded {
		return
	}
	p := &s.world.Players[idx]
	if m.Timestamp <= p.LastUpdate {
		s.stats.Stale.Add(1)
		return
	}
	p.LastUpdate = m.Timestamp
	p.SetKinematics(m.Ship)
	game.Interpolate(&p.Entity, s.clock.Now(), m.Timestamp)
}

func (s *Server) fire(from netip.AddrPort) {
	s.mu.Lock()
	idx, ok := s.slots.Lookup(from)
	if !ok {
		s.mu.Unlock()
		s.stats.Rejected.Add(1)
		return
	}
	if s.phase != PhaseInProgress {
		s.mu.Unlock()
		return
	}
	s.world.Shoot(idx)
	now := s.clock.Now()
	addrs := s.slots.Addrs()
	s.mu.Unlock()

	s.sendAll(&protocol.RspFire{Timestamp: now, Player: uint32(idx)}, addrs)
	s.track(store.EvtFire, idx, -1, now)
}
