package game

import "math"

// Vec2 is a 2D vector in screen units, origin at the screen center
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Len returns the vector magnitude
func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Heading returns the unit vector for an angle in degrees
func Heading(deg float32) Vec2 {
	rad := DegToRad(deg)
	return Vec2{float32(math.Cos(rad)), float32(math.Sin(rad))}
}

func DegToRad(deg float32) float64 {
	return float64(deg) * math.Pi / 180
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Wrap folds v into [lo, hi)
func Wrap(v, lo, hi float32) float32 {
	span := hi - lo
	if span <= 0 {
		return lo
	}
	r := float32(math.Mod(float64(v-lo), float64(span)))
	if r < 0 {
		r += span
	}
	return lo + r
}
