// Package forces provides the per-tick external force accumulators.
package forces

import "github.com/san-kum/rigid2d/internal/dynamo"

// Down is the fixed world axis gravity acts along (+Y, screen coordinates).
var Down = dynamo.Vec2{X: 0, Y: 1}

// Gravity adds G*mass along Down. G may be zero or negative.
type Gravity struct {
	G float64
}

func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

func (g *Gravity) Apply(b dynamo.Body) {
	p := b.State()
	p.ApplyForce(Down.Scale(g.G * p.Mass))
}
