package dynamo

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

// FallbackNormal is used whenever a contact direction cannot be derived
// from a zero-length offset.
var FallbackNormal = Vec2{X: 1, Y: 0}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector of v and false when v has zero length,
// in which case FallbackNormal is returned.
func (v Vec2) Normalize() (Vec2, bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		return FallbackNormal, false
	}
	return Vec2{v.X / l, v.Y / l}, true
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
