package game

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestEntityUpdateMoves(t *testing.T) {
	e := Entity{Transform: Transform{Scale: Vec2{50, 50}}, Vel: Vec2{10, -20}, Active: true}
	e.Update(Screen, 0.5)
	if !near(e.Pos.X, 5) || !near(e.Pos.Y, -10) {
		t.Errorf("expected (5,-10), got (%f,%f)", e.Pos.X, e.Pos.Y)
	}
}

func TestEntityUpdateInactiveIsNoop(t *testing.T) {
	e := Entity{Transform: Transform{Pos: Vec2{1, 2}}, Vel: Vec2{100, 100}}
	e.Update(Screen, 1)
	if e.Pos != (Vec2{1, 2}) {
		t.Errorf("inactive entity moved to %+v", e.Pos)
	}
}

func TestEntityWrapsRightEdge(t *testing.T) {
	e := Entity{Transform: Transform{Pos: Vec2{830, 0}, Scale: Vec2{50, 50}}, Vel: Vec2{10, 0}, Active: true}
	e.Update(Screen, 0.1)
	// 831 - 25 is past +800, so shift by -(1600 + 50)
	if !near(e.Pos.X, -819) {
		t.Errorf("expected wrap to -819, got %f", e.Pos.X)
	}
}

func TestEntityWrapsBottomEdge(t *testing.T) {
	e := Entity{Transform: Transform{Pos: Vec2{0, -480}, Scale: Vec2{50, 50}}, Vel: Vec2{0, -10}, Active: true}
	e.Update(Screen, 0.1)
	if !near(e.Pos.Y, -481+950) {
		t.Errorf("expected wrap to %f, got %f", float32(-481+950), e.Pos.Y)
	}
}

func TestEntityDoesNotWrapWhenMovingInward(t *testing.T) {
	// spawned asteroids start outside the screen heading in
	e := Entity{Transform: Transform{Pos: Vec2{900, 0}, Scale: Vec2{80, 80}}, Vel: Vec2{-60, 0}, Active: true}
	e.Update(Screen, 0.1)
	if !near(e.Pos.X, 894) {
		t.Errorf("expected 894, got %f", e.Pos.X)
	}
}

func TestEntityStaysWithinWrapBounds(t *testing.T) {
	const size = 50
	dirs := []Vec2{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {0.6, 0.8}, {-0.8, -0.6}}
	for _, d := range dirs {
		e := Entity{
			Transform: Transform{Scale: Vec2{size, size}},
			Vel:       d.Scale(PlayerMaxSpeed),
			Active:    true,
		}
		for i := 0; i < 5000; i++ {
			e.Update(Screen, 1.0/60)
			if e.Pos.X < -Screen.X/2-size || e.Pos.X > Screen.X/2+size ||
				e.Pos.Y < -Screen.Y/2-size || e.Pos.Y > Screen.Y/2+size {
				t.Fatalf("heading %+v: left the arena at frame %d: %+v", d, i, e.Pos)
			}
		}
	}
}

func TestRadiusUsesLargerAxis(t *testing.T) {
	e := Entity{Transform: Transform{Scale: Vec2{20, 60}}}
	if e.Radius() != 30 {
		t.Errorf("expected radius 30, got %f", e.Radius())
	}
}

func TestInterpolate(t *testing.T) {
	e := Entity{Vel: Vec2{10, -20}}
	Interpolate(&e, 2, 1.5)
	if !near(e.Pos.X, 5) || !near(e.Pos.Y, -10) {
		t.Errorf("expected (5,-10), got (%f,%f)", e.Pos.X, e.Pos.Y)
	}

	// interpolating by zero delay leaves position alone
	Interpolate(&e, 3, 3)
	if !near(e.Pos.X, 5) || !near(e.Pos.Y, -10) {
		t.Errorf("zero delay should not move, got (%f,%f)", e.Pos.X, e.Pos.Y)
	}
}

func TestKinematicsRoundTrip(t *testing.T) {
	e := Entity{Transform: Transform{Pos: Vec2{1, 2}, Scale: Vec2{3, 4}, Rot: 5}, Vel: Vec2{6, 7}}
	var other Entity
	other.SetKinematics(e.Kinematics())
	if other.Transform != e.Transform || other.Vel != e.Vel {
		t.Errorf("expected %+v, got %+v", e, other)
	}

	k := e.Kinematics()
	k.ScaleX = 99
	other.SetMotion(k)
	if other.Scale.X != 3 {
		t.Error("SetMotion should keep the local scale")
	}
}

func TestApplyIntentTurn(t *testing.T) {
	p := NewPlayer(0)
	ApplyIntent(&p, Intent{Turn: 1}, 1)
	if !near(p.Rot, 100) {
		t.Errorf("expected rot 100, got %f", p.Rot)
	}

	p.Rot = 0
	ApplyIntent(&p, Intent{Turn: -1}, 1)
	if !near(p.Rot, 260) {
		t.Errorf("rotation should wrap into [0,360), got %f", p.Rot)
	}
}

func TestApplyIntentThrustCapsSpeed(t *testing.T) {
	p := NewPlayer(1)
	ApplyIntent(&p, Intent{Thrust: 1}, 1)
	if !near(p.Vel.X, PlayerAccel) || !near(p.Vel.Y, 0) {
		t.Errorf("expected vel (%f,0), got %+v", float32(PlayerAccel), p.Vel)
	}
	for i := 0; i < 10; i++ {
		ApplyIntent(&p, Intent{Thrust: 1}, 1)
	}
	if !near(p.Vel.Len(), PlayerMaxSpeed) {
		t.Errorf("speed should cap at %f, got %f", float32(PlayerMaxSpeed), p.Vel.Len())
	}

	ApplyIntent(&p, Intent{Thrust: -1}, 1)
	if !near(p.Vel.X, PlayerMaxSpeed-PlayerAccel) {
		t.Errorf("reverse thrust should slow down, got %+v", p.Vel)
	}
}

func TestNewPlayerColors(t *testing.T) {
	if NewPlayer(2).Color != Blue || NewPlayer(3).Color != Purple {
		t.Error("player colors should follow slot order")
	}
}

func TestMatchClock(t *testing.T) {
	var c MatchClock
	c.Advance(0.5)
	if got := c.Advance(0.25); got != 0.75 {
		t.Errorf("expected 0.75, got %f", got)
	}
	c.Set(10)
	if c.Now() != 10 {
		t.Errorf("expected 10, got %f", c.Now())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(370, 0, 360) != 10 {
		t.Errorf("got %f", Wrap(370, 0, 360))
	}
	if Wrap(-10, 0, 360) != 350 {
		t.Errorf("got %f", Wrap(-10, 0, 360))
	}
	if Wrap(360, 0, 360) != 0 {
		t.Errorf("got %f", Wrap(360, 0, 360))
	}
}
