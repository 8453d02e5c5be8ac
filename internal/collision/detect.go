package collision

import (
	"math"

	"github.com/san-kum/rigid2d/internal/dynamo"
)

// Contact describes one detected overlap.
type Contact struct {
	Normal     dynamo.Vec2
	Overlap    float64
	Degenerate bool
}

// Pushback is Normal scaled by Overlap.
func (c Contact) Pushback() dynamo.Vec2 {
	return c.Normal.Scale(c.Overlap)
}

// CircleCircle reports whether a and b overlap. The normal points from a to b.
func CircleCircle(a, b *dynamo.Circle) (Contact, bool) {
	offset := b.Position.Sub(a.Position)
	distance := offset.Len()
	overlap := (a.Radius + b.Radius) - distance
	if !(overlap > 0) {
		return Contact{}, false
	}
	normal, ok := offset.Normalize()
	return Contact{Normal: normal, Overlap: overlap, Degenerate: !ok}, true
}

// CircleBoundary reports whether c presses against the boundary. The normal
// points from the boundary center to the body.
func CircleBoundary(c *dynamo.Circle, bd Boundary) (Contact, bool) {
	offset := c.Position.Sub(bd.Center)
	distance := offset.Len()

	var overlap float64
	switch bd.Mode {
	case Exclude:
		overlap = bd.Radius + c.Radius - distance
	default:
		overlap = distance + c.Radius - bd.Radius
	}
	if !(overlap > 0) {
		return Contact{}, false
	}
	normal, ok := offset.Normalize()
	return Contact{Normal: normal, Overlap: overlap, Degenerate: !ok}, true
}

// RectRect is the boolean AABB overlap test. Rectangles that only share an
// edge do not overlap.
func RectRect(a, b *dynamo.Rect) bool {
	amin, amax := a.Min(), a.Max()
	bmin, bmax := b.Min(), b.Max()
	return amin.X < bmax.X && bmin.X < amax.X &&
		amin.Y < bmax.Y && bmin.Y < amax.Y
}

// RectPenetration returns the minimum-penetration axis contact between two
// overlapping rectangles. The normal points from a's center towards b's.
func RectPenetration(a, b *dynamo.Rect) (Contact, bool) {
	if !RectRect(a, b) {
		return Contact{}, false
	}
	amin, amax := a.Min(), a.Max()
	bmin, bmax := b.Min(), b.Max()

	overlapX := math.Min(amax.X, bmax.X) - math.Max(amin.X, bmin.X)
	overlapY := math.Min(amax.Y, bmax.Y) - math.Max(amin.Y, bmin.Y)
	d := b.Center().Sub(a.Center())

	if overlapX <= overlapY {
		n := dynamo.Vec2{X: 1}
		if d.X < 0 {
			n.X = -1
		}
		return Contact{Normal: n, Overlap: overlapX, Degenerate: d.X == 0}, true
	}
	n := dynamo.Vec2{Y: 1}
	if d.Y < 0 {
		n.Y = -1
	}
	return Contact{Normal: n, Overlap: overlapY, Degenerate: d.Y == 0}, true
}
