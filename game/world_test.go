package game

import (
	"math"
	"testing"

	"spaceship-arena/protocol"
)

func TestNewWorldActivatesConfiguredSlots(t *testing.T) {
	w := NewWorld(2)
	for i := range w.Players {
		if w.Players[i].Active != (i < 2) {
			t.Errorf("player %d active=%v", i, w.Players[i].Active)
		}
		if w.Players[i].Scale != (Vec2{PlayerSize, PlayerSize}) {
			t.Errorf("player %d has scale %+v", i, w.Players[i].Scale)
		}
	}
}

func TestSpawnerDeterministic(t *testing.T) {
	a, b := NewSpawner(SpawnSeed), NewSpawner(SpawnSeed)
	for i := 0; i < 50; i++ {
		x, y := a.Next(Screen), b.Next(Screen)
		if x != y {
			t.Fatalf("spawn %d diverged: %+v vs %+v", i, x, y)
		}
	}
}

func TestSpawnerStartsOffscreenHeadingIn(t *testing.T) {
	s := NewSpawner(SpawnSeed)
	halfW, halfH := Screen.X/2, Screen.Y/2
	for i := 0; i < 200; i++ {
		a := s.Next(Screen)
		size := a.Scale.X
		if size < AsteroidMinSize || size > AsteroidMaxSize {
			t.Fatalf("size %f out of range", size)
		}
		if a.Rot < 0 || a.Rot > 359 {
			t.Fatalf("rotation %f out of range", a.Rot)
		}
		inward := float32(AsteroidSpeed * 0.6)
		switch {
		case a.Pos.Y > halfH:
			if !near(a.Vel.Y, -inward) || a.Pos.X < -halfW || a.Pos.X > halfW {
				t.Fatalf("top spawn %+v", a)
			}
		case a.Pos.Y < -halfH:
			if !near(a.Vel.Y, inward) {
				t.Fatalf("bottom spawn %+v", a)
			}
		case a.Pos.X < -halfW:
			if !near(a.Vel.X, inward) || a.Pos.Y < -halfH || a.Pos.Y > halfH {
				t.Fatalf("left spawn %+v", a)
			}
		case a.Pos.X > halfW:
			if !near(a.Vel.X, -inward) {
				t.Fatalf("right spawn %+v", a)
			}
		default:
			t.Fatalf("asteroid spawned on screen: %+v", a)
		}
	}
}

func TestWorldsAgreeOnSlots(t *testing.T) {
	server, client := NewWorld(2), NewWorld(2)
	for i := 0; i < 3; i++ {
		if s, c := server.SpawnAsteroid(), client.SpawnAsteroid(); s != c || s != i {
			t.Fatalf("spawn %d: server slot %d, client slot %d", i, s, c)
		}
	}

	server.DestroyAsteroid(1)
	client.DestroyAsteroid(1)
	s, c := server.SpawnAsteroid(), client.SpawnAsteroid()
	if s != 1 || c != 1 {
		t.Errorf("freed slot should be reused, got server %d client %d", s, c)
	}
	if server.Objects[1] != client.Objects[1] {
		t.Error("reused slot holds different asteroids")
	}
	if server.ActiveAsteroids() != 3 {
		t.Errorf("expected 3 active asteroids, got %d", server.ActiveAsteroids())
	}
}

func TestDestroyAsteroidOutOfRange(t *testing.T) {
	w := NewWorld(1)
	w.SpawnAsteroid()
	if w.DestroyAsteroid(-1) || w.DestroyAsteroid(1) {
		t.Error("out-of-range slot should be ignored")
	}
	if !w.DestroyAsteroid(0) || w.ActiveAsteroids() != 0 {
		t.Error("slot 0 should be destroyed")
	}
}

func TestShootUsesShooterPose(t *testing.T) {
	w := NewWorld(2)
	w.Players[1].Pos = Vec2{10, 20}
	w.Players[1].Rot = 90
	i := w.Shoot(1)

	b := w.Bullets[i]
	if b.Pos != (Vec2{10, 20}) || b.Owner != 1 || b.Color != Green {
		t.Errorf("unexpected bullet %+v", b)
	}
	if math.Abs(float64(b.Vel.X)) > 0.01 || !near(b.Vel.Y, BulletSpeed) {
		t.Errorf("expected velocity (0,%f), got %+v", float32(BulletSpeed), b.Vel)
	}
	if b.Life != BulletLifetime {
		t.Errorf("expected life %f, got %f", float32(BulletLifetime), b.Life)
	}
}

func TestShootReusesInactiveBullet(t *testing.T) {
	w := NewWorld(1)
	w.Shoot(0)
	w.Shoot(0)
	w.Bullets[0].Active = false
	if i := w.Shoot(0); i != 0 {
		t.Errorf("expected reuse of slot 0, got %d", i)
	}
	if len(w.Bullets) != 2 {
		t.Errorf("pool should not grow, has %d", len(w.Bullets))
	}
}

func TestBulletExpires(t *testing.T) {
	w := NewWorld(1)
	w.Shoot(0)
	w.Step(0.6)
	if w.ActiveBullets() != 1 {
		t.Fatal("bullet should still be alive")
	}
	w.Step(0.6)
	if w.ActiveBullets() != 0 {
		t.Error("bullet should expire after its lifetime")
	}
}

func TestAdvanceLeavesShips(t *testing.T) {
	w := NewWorld(1)
	w.Players[0].Vel = Vec2{100, 0}
	slot := w.SpawnAsteroid()
	before := w.Objects[slot].Pos

	w.Advance(0.5)
	if w.Players[0].Pos != (Vec2{}) {
		t.Error("Advance should not move ships")
	}
	if w.Objects[slot].Pos == before {
		t.Error("Advance should move asteroids")
	}

	w.Step(0.5)
	if !near(w.Players[0].Pos.X, 50) {
		t.Errorf("Step should move ships, got %+v", w.Players[0].Pos)
	}
}

func TestScoresAndShips(t *testing.T) {
	w := NewWorld(4)
	w.Players[3].Score = 42
	w.Players[2].Pos = Vec2{7, 8}
	if w.Scores()[3] != 42 {
		t.Error("scores should follow slot order")
	}
	if k := w.Ships()[2]; k.PosX != 7 || k.PosY != 8 || k.ScaleX != PlayerSize {
		t.Errorf("unexpected kinematics %+v", k)
	}
}

func TestShipsZeroForEmptySlots(t *testing.T) {
	w := NewWorld(2)
	ships := w.Ships()
	if ships[1].ScaleX != PlayerSize {
		t.Errorf("slot 1 is in play, got %+v", ships[1])
	}
	for i := 2; i < protocol.MaxPlayers; i++ {
		if ships[i] != (protocol.Kinematics{}) {
			t.Errorf("slot %d is empty but packed %+v", i, ships[i])
		}
	}
}
