package metrics

import (
	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/sim"
)

// Containment is the fraction of observed frames in which every circle sat
// on the permitted side of the boundary, within tolerance.
type Containment struct {
	name       string
	boundary   collision.Boundary
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(bd collision.Boundary, tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		boundary:  bd,
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f *sim.Frame) {
	c.samples++
	for i := range f.Circles {
		if contact, ok := collision.CircleBoundary(&f.Circles[i], c.boundary); ok && contact.Overlap > c.tolerance {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
