package game

import "math/rand"

const (
	AsteroidMinSize  = 50.0
	AsteroidMaxSize  = 100.0
	AsteroidSpeed    = 100.0
	AsteroidInterval = 2.0 // seconds between spawns

	// SpawnSeed seeds the spawner on every peer. A spawn event carries no
	// asteroid data, so both sides must draw the same sequence.
	SpawnSeed = 1
)

// spawn sides, in draw order
const (
	sideUp = iota
	sideDown
	sideLeft
	sideRight
)

// Spawner produces asteroids from a seeded sequence. The draw order is
// side, size, rotation, edge position, cross speed; changing it breaks
// agreement between peers.
type Spawner struct {
	rng *rand.Rand
}

func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed))}
}

func (s *Spawner) float(min, max float32) float32 {
	return min + s.rng.Float32()*(max-min)
}

// Next returns an asteroid just outside one screen edge, drifting inward
func (s *Spawner) Next(screen Vec2) Entity {
	side := s.rng.Intn(4)
	size := s.float(AsteroidMinSize, AsteroidMaxSize)
	a := Entity{
		Transform: Transform{
			Scale: Vec2{size, size},
			Rot:   s.float(0, 359),
		},
		Kind:   KindAsteroid,
		Color:  Gray,
		Active: true,
	}

	halfW, halfH := screen.X/2, screen.Y/2
	cross := float32(AsteroidSpeed * 0.4)
	inward := AsteroidSpeed - cross
	switch side {
	case sideUp:
		a.Pos = Vec2{s.float(-halfW, halfW), halfH + size}
		a.Vel = Vec2{s.float(-cross, cross), -inward}
	case sideDown:
		a.Pos = Vec2{s.float(-halfW, halfW), -halfH - size}
		a.Vel = Vec2{s.float(-cross, cross), inward}
	case sideLeft:
		a.Pos = Vec2{-halfW - size, s.float(-halfH, halfH)}
		a.Vel = Vec2{inward, s.float(-cross, cross)}
	default:
		a.Pos = Vec2{halfW + size, s.float(-halfH, halfH)}
		a.Vel = Vec2{-inward, s.float(-cross, cross)}
	}
	return a
}
