package game

import "spaceship-arena/protocol"

// World holds the simulated state of one session. It is not safe for
// concurrent use; sessions guard it with their own lock.
type World struct {
	Players [protocol.MaxPlayers]Player
	Bullets []Bullet
	Objects []Entity // asteroids; the index is the slot sent on the wire
	Spawner *Spawner
	Screen  Vec2
}

// NewWorld creates a world for the given number of players. Slots past
// that count stay inactive and are never simulated or collided.
func NewWorld(players int) *World {
	w := &World{
		Spawner: NewSpawner(SpawnSeed),
		Screen:  Screen,
	}
	for i := range w.Players {
		w.Players[i] = NewPlayer(i)
		w.Players[i].Active = i < players
	}
	return w
}

// Shoot fires a bullet from owner's current pose and returns its index.
// Inactive bullets are reused before the pool grows.
func (w *World) Shoot(owner int) int {
	b := newBullet(&w.Players[owner], owner)
	for i := range w.Bullets {
		if !w.Bullets[i].Active {
			w.Bullets[i] = b
			return i
		}
	}
	w.Bullets = append(w.Bullets, b)
	return len(w.Bullets) - 1
}

// SpawnAsteroid draws the next asteroid and places it in the first free
// slot, returning that slot.
func (w *World) SpawnAsteroid() int {
	a := w.Spawner.Next(w.Screen)
	for i := range w.Objects {
		if !w.Objects[i].Active && w.Objects[i].Kind != KindPlayer {
			w.Objects[i] = a
			return i
		}
	}
	w.Objects = append(w.Objects, a)
	return len(w.Objects) - 1
}

// DestroyAsteroid deactivates a slot. Out-of-range slots are ignored.
func (w *World) DestroyAsteroid(slot int) bool {
	if slot < 0 || slot >= len(w.Objects) {
		return false
	}
	w.Objects[slot].Active = false
	return true
}

// Step advances every active entity by dt
func (w *World) Step(dt float32) {
	for i := range w.Players {
		w.Players[i].Update(w.Screen, dt)
	}
	w.Advance(dt)
}

// Advance moves bullets and asteroids only. Ships are left alone so a
// time correction can be applied after they were overwritten.
func (w *World) Advance(dt float32) {
	for i := range w.Bullets {
		w.Bullets[i].Update(w.Screen, dt)
	}
	for i := range w.Objects {
		w.Objects[i].Update(w.Screen, dt)
	}
}

func (w *World) ActiveAsteroids() int {
	n := 0
	for i := range w.Objects {
		if w.Objects[i].Active && w.Objects[i].Kind == KindAsteroid {
			n++
		}
	}
	return n
}

func (w *World) ActiveBullets() int {
	n := 0
	for i := range w.Bullets {
		if w.Bullets[i].Active {
			n++
		}
	}
	return n
}

// Scores returns every slot's score in index order
func (w *World) Scores() [protocol.MaxPlayers]int32 {
	var s [protocol.MaxPlayers]int32
	for i := range w.Players {
		s[i] = w.Players[i].Score
	}
	return s
}

// Ships packs every slot's kinematics in index order. Inactive slots stay
// zero; a zero scale tells the receiver the slot is not in play.
func (w *World) Ships() [protocol.MaxPlayers]protocol.Kinematics {
	var k [protocol.MaxPlayers]protocol.Kinematics
	for i := range w.Players {
		if w.Players[i].Active {
			k[i] = w.Players[i].Kinematics()
		}
	}
	return k
}
