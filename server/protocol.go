package server

import (
	"spaceship-arena/game"
	"spaceship-arena/protocol"
)

// ShipState is one player slot as spectators see it
type ShipState struct {
	Slot      int     `msgpack:"i" json:"slot"`
	X         float32 `msgpack:"x" json:"x"`
	Y         float32 `msgpack:"y" json:"y"`
	R         float32 `msgpack:"r" json:"r"` // degrees
	VX        float32 `msgpack:"vx" json:"vx"`
	VY        float32 `msgpack:"vy" json:"vy"`
	Score     int32   `msgpack:"sc" json:"score"`
	Connected bool    `msgpack:"c" json:"connected"`
}

// BulletState is one live bullet
type BulletState struct {
	X     float32 `msgpack:"x" json:"x"`
	Y     float32 `msgpack:"y" json:"y"`
	Owner int     `msgpack:"o" json:"owner"`
}

// AsteroidState is one live asteroid, keyed by its wire slot
type AsteroidState struct {
	Slot int     `msgpack:"i" json:"slot"`
	X    float32 `msgpack:"x" json:"x"`
	Y    float32 `msgpack:"y" json:"y"`
	Size float32 `msgpack:"s" json:"size"`
	R    float32 `msgpack:"r" json:"r"`
}

// Snapshot is the full state pushed to spectators as a binary frame
type Snapshot struct {
	Phase     string          `msgpack:"ph" json:"phase"`
	Clock     float32         `msgpack:"t" json:"clock"`
	Remaining float32         `msgpack:"rem" json:"remaining"`
	Ships     []ShipState     `msgpack:"p" json:"ships"`
	Bullets   []BulletState   `msgpack:"b" json:"bullets"`
	Asteroids []AsteroidState `msgpack:"a" json:"asteroids"`
}

// snapshotLocked copies the world for spectators. Caller holds s.mu.
func (s *Server) snapshotLocked() Snapshot {
	w := s.world
	snap := Snapshot{
		Phase:     s.phase.String(),
		Clock:     s.clock.Now(),
		Remaining: s.remaining,
		Ships:     make([]ShipState, 0, protocol.MaxPlayers),
	}
	for i := 0; i < s.slots.capacity; i++ {
		p := &w.Players[i]
		snap.Ships = append(snap.Ships, ShipState{
			Slot: i, X: p.Pos.X, Y: p.Pos.Y, R: p.Rot,
			VX: p.Vel.X, VY: p.Vel.Y,
			Score: p.Score, Connected: p.Connected,
		})
	}
	for i := range w.Bullets {
		b := &w.Bullets[i]
		if b.Active {
			snap.Bullets = append(snap.Bullets, BulletState{X: b.Pos.X, Y: b.Pos.Y, Owner: b.Owner})
		}
	}
	for i := range w.Objects {
		a := &w.Objects[i]
		if a.Active && a.Kind == game.KindAsteroid {
			snap.Asteroids = append(snap.Asteroids, AsteroidState{Slot: i, X: a.Pos.X, Y: a.Pos.Y, Size: a.Scale.X, R: a.Rot})
		}
	}
	return snap
}

// Snapshot returns the current state under the world lock
func (s *Server) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}
