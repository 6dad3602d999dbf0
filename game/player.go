package game

const (
	ScreenWidth  = 1600.0
	ScreenHeight = 900.0

	PlayerSize     = 50.0
	PlayerAccel    = 100.0 // units/s²
	PlayerMaxSpeed = 200.0 // units/s
	RotateSpeed    = 100.0 // degrees/s
	FireCooldown   = 0.5   // seconds between shots

	ScorePerAsteroid = 50
	PenaltyPerHit    = 10
)

// Screen is the arena extent shared by both peers
var Screen = Vec2{ScreenWidth, ScreenHeight}

// Player is a ship slot. LastUpdate is the newest client timestamp the
// server has accepted for it.
type Player struct {
	Entity
	Score      int32
	LastUpdate float32
	Connected  bool
}

// NewPlayer returns a ship at the center in its slot color
func NewPlayer(slot int) Player {
	return Player{
		Entity: Entity{
			Transform: Transform{Scale: Vec2{PlayerSize, PlayerSize}},
			Kind:      KindPlayer,
			Color:     PlayerColors[slot],
			Active:    true,
		},
	}
}

// Intent is one frame of local input. Thrust and Turn are -1, 0 or +1;
// positive Turn is counter-clockwise.
type Intent struct {
	Thrust int
	Turn   int
	Fire   bool
}

// ApplyIntent turns first, then accelerates along the new heading and
// caps speed at PlayerMaxSpeed.
func ApplyIntent(p *Player, in Intent, dt float32) {
	if in.Turn != 0 {
		p.Rot = Wrap(p.Rot+RotateSpeed*dt*float32(in.Turn), 0, 360)
	}
	if in.Thrust != 0 {
		dv := Heading(p.Rot).Scale(PlayerAccel * dt * float32(in.Thrust))
		p.Vel = p.Vel.Add(dv)
		if mag := p.Vel.Len(); mag > PlayerMaxSpeed {
			p.Vel = p.Vel.Scale(PlayerMaxSpeed / mag)
		}
	}
}
