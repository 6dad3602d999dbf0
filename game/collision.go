package game

// Overlaps checks if the bounding circles of two transforms touch
func Overlaps(a, b Transform) bool {
	d := b.Pos.Sub(a.Pos)
	radSum := a.Radius() + b.Radius()
	return d.Dot(d) <= radSum*radSum
}

// Sweep checks if two moving entities meet during the next dt seconds.
// It finds the time of closest approach along the relative motion and
// reports a hit only when that approach is close enough and falls inside
// the step.
func Sweep(a, b *Entity, dt float32) bool {
	if Overlaps(a.Transform, b.Transform) {
		return true
	}
	relPos := b.Pos.Sub(a.Pos)
	relVel := b.Vel.Sub(a.Vel)
	speed2 := relVel.Dot(relVel)
	if speed2 == 0 {
		return false
	}
	approach := relPos.Dot(relVel)
	if approach >= 0 {
		return false
	}
	t := -approach / speed2
	closest := relPos.Add(relVel.Scale(t))
	radSum := a.Radius() + b.Radius()
	if closest.Dot(closest) > radSum*radSum {
		return false
	}
	return t >= 0 && t <= dt
}

// HitKind says what struck an asteroid
type HitKind uint8

const (
	HitShip HitKind = iota
	HitBullet
)

// Hit records one asteroid destroyed during Resolve
type Hit struct {
	Kind   HitKind
	Player int // ship that crashed, or owner of the bullet
	Slot   int // asteroid slot in World.Objects
}

// Resolve runs ship-vs-asteroid and then bullet-vs-asteroid checks for
// one step, applying score changes and deactivating what was hit.
func (w *World) Resolve(dt float32) []Hit {
	var hits []Hit
	for slot := range w.Objects {
		a := &w.Objects[slot]
		for i := range w.Players {
			p := &w.Players[i]
			if !a.Active || a.Kind != KindAsteroid {
				break
			}
			if !p.Active || !Sweep(&p.Entity, a, dt) {
				continue
			}
			p.Score -= PenaltyPerHit
			a.Active = false
			hits = append(hits, Hit{Kind: HitShip, Player: i, Slot: slot})
		}
	}

	for bi := range w.Bullets {
		b := &w.Bullets[bi]
		if !b.Active {
			continue
		}
		for slot := range w.Objects {
			a := &w.Objects[slot]
			if !a.Active || a.Kind != KindAsteroid {
				continue
			}
			if Sweep(&b.Entity, a, dt) {
				b.Active = false
				a.Active = false
				if b.Owner >= 0 && b.Owner < len(w.Players) {
					w.Players[b.Owner].Score += ScorePerAsteroid
				}
				hits = append(hits, Hit{Kind: HitBullet, Player: b.Owner, Slot: slot})
				break
			}
		}
	}
	return hits
}

// PredictBulletHits hides bullets that will strike an asteroid this step.
// Asteroids are left alone; only the server removes them.
func (w *World) PredictBulletHits(dt float32) int {
	n := 0
	for bi := range w.Bullets {
		b := &w.Bullets[bi]
		if !b.Active {
			continue
		}
		for slot := range w.Objects {
			a := &w.Objects[slot]
			if a.Active && a.Kind == KindAsteroid && Sweep(&b.Entity, a, dt) {
				b.Active = false
				n++
				break
			}
		}
	}
	return n
}
