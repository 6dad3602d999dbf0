package game

const (
	BulletSize     = 10.0
	BulletSpeed    = 1000.0 // units/s
	BulletLifetime = 1.0    // seconds
)

// Bullet is a shot owned by a player slot
type Bullet struct {
	Entity
	Life  float32
	Owner int
}

func newBullet(shooter *Player, owner int) Bullet {
	return Bullet{
		Entity: Entity{
			Transform: Transform{
				Pos:   shooter.Pos,
				Scale: Vec2{BulletSize, BulletSize},
				Rot:   shooter.Rot,
			},
			Vel:    Heading(shooter.Rot).Scale(BulletSpeed),
			Kind:   KindBullet,
			Color:  shooter.Color,
			Active: true,
		},
		Life:  BulletLifetime,
		Owner: owner,
	}
}

// Update moves the bullet one step and expires it once its life runs out
func (b *Bullet) Update(screen Vec2, dt float32) {
	if !b.Active {
		return
	}
	b.Entity.Update(screen, dt)
	b.Life -= dt
	if b.Life < 0 {
		b.Active = false
	}
}
