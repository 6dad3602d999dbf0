package server

import (
	"time"

	"spaceship-arena/game"
	"spaceship-arena/protocol"
	"spaceship-arena/store"
)

const (
	TickRate     = 60 // simulation steps per second
	TickDuration = time.Second / TickRate

	asteroidInterval = float32(game.AsteroidInterval)
	stepDt           = float32(1.0 / TickRate)
)

// tick advances the match by the wall time elapsed since the previous tick
// and broadcasts what changed. The clock and timer move by the full
// elapsed time; physics runs in steps of at most stepDt. It reports true
// once the match timer runs out.
func (s *Server) tick(elapsed float32) bool {
	s.mu.Lock()
	if s.phase != PhaseInProgress {
		s.mu.Unlock()
		return false
	}

	now := s.clock.Advance(elapsed)
	s.remaining -= elapsed
	s.spawnIn -= elapsed

	var out []protocol.Message
	for s.spawnIn <= 0 {
		s.spawnIn += asteroidInterval
		slot := s.world.SpawnAsteroid()
		out = append(out, &protocol.AsteroidSpawn{Timestamp: now})
		s.track(store.EvtSpawn, -1, slot, now)
	}

	for rest := elapsed; rest > 0; rest -= stepDt {
		dt := min(rest, stepDt)
		s.world.Step(dt)
		for _, h := range s.world.Resolve(dt) {
			out = append(out, &protocol.AsteroidDestroy{Slot: uint32(h.Slot)})
			kind := store.EvtDestroy
			if h.Kind == game.HitShip {
				kind = store.EvtShipHit
			}
			s.track(kind, h.Player, h.Slot, now)
		}
	}

	ended := s.remaining <= 0
	if ended {
		s.phase = PhaseEnded
	}
	addrs := s.slots.Addrs()
	s.mu.Unlock()

	for _, m := range out {
		s.sendAll(m, addrs)
	}
	return ended
}
