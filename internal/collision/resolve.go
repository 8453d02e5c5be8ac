package collision

import (
	"math"

	"github.com/san-kum/rigid2d/internal/dynamo"
)

// ResolveCircles separates a and b along c.Normal. a moves by the share of
// b's mass and b by the share of a's, so the lighter body moves more. The
// penalty force uses the smaller of the two masses.
func ResolveCircles(a, b *dynamo.Circle, c Contact) {
	separate(&a.PointMass, &b.PointMass, c)
}

// ResolveRects applies the same positional split and penalty as
// ResolveCircles along the minimum-penetration axis.
func ResolveRects(a, b *dynamo.Rect, c Contact) {
	separate(&a.PointMass, &b.PointMass, c)
}

func separate(a, b *dynamo.PointMass, c Contact) {
	pushback := c.Pushback()
	total := a.Mass + b.Mass

	a.Position = a.Position.Sub(pushback.Scale(b.Mass / total))
	b.Position = b.Position.Add(pushback.Scale(a.Mass / total))

	acting := math.Min(a.Mass, b.Mass)
	a.Force = a.Force.Sub(pushback.Scale(acting))
	b.Force = b.Force.Add(pushback.Scale(acting))
}

// ResolveBoundary moves c back to the permitted side of bd and penalizes the
// force pressing it across.
func ResolveBoundary(c *dynamo.Circle, bd Boundary, contact Contact) {
	pushback := contact.Pushback()
	if bd.Mode == Exclude {
		c.Position = c.Position.Add(pushback)
		c.Force = c.Force.Add(pushback.Scale(c.Mass))
		return
	}
	c.Position = c.Position.Sub(pushback)
	c.Force = c.Force.Sub(pushback.Scale(c.Mass))
}
