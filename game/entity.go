package game

import "spaceship-arena/protocol"

// Kind tags what an entity is; collision and slot reuse look at it
type Kind uint8

const (
	KindBackground Kind = iota
	KindPlayer
	KindBullet
	KindAsteroid
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindBullet:
		return "bullet"
	case KindAsteroid:
		return "asteroid"
	}
	return "background"
}

// Color is an RGBA tint in [0,1]
type Color struct {
	R, G, B, A float32
}

var (
	Red    = Color{1, 0, 0, 1}
	Green  = Color{0, 1, 0, 1}
	Blue   = Color{0, 0, 1, 1}
	Purple = Color{0.5, 0, 0.5, 1}
	Gray   = Color{0.5, 0.5, 0.5, 1}
)

// PlayerColors is indexed by player slot
var PlayerColors = [protocol.MaxPlayers]Color{Red, Green, Blue, Purple}

// Transform places an entity. Rot is in degrees.
type Transform struct {
	Pos   Vec2
	Scale Vec2
	Rot   float32
}

// Entity is anything that moves across the arena
type Entity struct {
	Transform
	Vel    Vec2
	Kind   Kind
	Color  Color
	Active bool
}

// Update integrates position and wraps around the screen edges. Each axis
// only checks the edge it is moving toward, once per call.
func (e *Entity) Update(screen Vec2, dt float32) {
	if !e.Active {
		return
	}
	e.Pos = e.Pos.Add(e.Vel.Scale(dt))

	halfW, halfH := screen.X/2, screen.Y/2
	if e.Vel.X > 0 && e.Pos.X-e.Scale.X/2 > halfW {
		e.Pos.X -= screen.X + e.Scale.X
	} else if e.Vel.X < 0 && e.Pos.X+e.Scale.X/2 < -halfW {
		e.Pos.X += screen.X + e.Scale.X
	}
	if e.Vel.Y > 0 && e.Pos.Y-e.Scale.Y/2 > halfH {
		e.Pos.Y -= screen.Y + e.Scale.Y
	} else if e.Vel.Y < 0 && e.Pos.Y+e.Scale.Y/2 < -halfH {
		e.Pos.Y += screen.Y + e.Scale.Y
	}
}

// Radius is half of the larger scale axis
func (e *Entity) Radius() float32 {
	return e.Transform.Radius()
}

func (t Transform) Radius() float32 {
	if t.Scale.X > t.Scale.Y {
		return t.Scale.X / 2
	}
	return t.Scale.Y / 2
}

// Interpolate dead-reckons e from the time its data was valid to now,
// assuming constant velocity over the gap.
func Interpolate(e *Entity, now, timestamp float32) {
	e.Pos = e.Pos.Add(e.Vel.Scale(now - timestamp))
}

// Kinematics packs the wire block for this entity
func (e *Entity) Kinematics() protocol.Kinematics {
	return protocol.Kinematics{
		PosX: e.Pos.X, PosY: e.Pos.Y,
		ScaleX: e.Scale.X, ScaleY: e.Scale.Y,
		Rot:  e.Rot,
		VelX: e.Vel.X, VelY: e.Vel.Y,
	}
}

// SetMotion copies position, rotation and velocity from a wire block.
// Scale stays local.
func (e *Entity) SetMotion(k protocol.Kinematics) {
	e.Pos = Vec2{k.PosX, k.PosY}
	e.Rot = k.Rot
	e.Vel = Vec2{k.VelX, k.VelY}
}

// SetKinematics copies the whole wire block, scale included
func (e *Entity) SetKinematics(k protocol.Kinematics) {
	e.SetMotion(k)
	e.Scale = Vec2{k.ScaleX, k.ScaleY}
}
