package dynamo

import (
	"fmt"
	"math"
)

// PointMass is the physical state every body shape carries.
// Force is a per-tick accumulator and is zeroed by the integrator.
type PointMass struct {
	Position Vec2
	Velocity Vec2
	Force    Vec2
	Mass     float64
}

func (p *PointMass) State() *PointMass { return p }

func (p *PointMass) ApplyForce(f Vec2) { p.Force = p.Force.Add(f) }

func (p *PointMass) IsValid() bool {
	return p.Position.IsValid() && p.Velocity.IsValid() && p.Force.IsValid()
}

// KineticEnergy returns 0.5*m*|v|^2.
func (p *PointMass) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.LenSq()
}

// Body is implemented by every simulated shape.
type Body interface {
	State() *PointMass
	ApplyForce(f Vec2)
}

// Circle is a body with a circular extent centered on Position.
type Circle struct {
	PointMass
	Radius float64
}

func NewCircle(pos Vec2, radius, mass float64) *Circle {
	return &Circle{PointMass: PointMass{Position: pos, Mass: mass}, Radius: radius}
}

// Rect is an axis-aligned body; Position is the top-left corner and Size
// holds width and height.
type Rect struct {
	PointMass
	Size Vec2
}

func NewRect(pos, size Vec2, mass float64) *Rect {
	return &Rect{PointMass: PointMass{Position: pos, Mass: mass}, Size: size}
}

// Min and Max return the AABB corners.
func (r *Rect) Min() Vec2 { return r.Position }
func (r *Rect) Max() Vec2 { return r.Position.Add(r.Size) }

func (r *Rect) Center() Vec2 { return r.Position.Add(r.Size.Scale(0.5)) }

type ForceGenerator interface {
	Apply(b Body)
}

// Integrator advances a body by one tick using its accumulated force and
// must leave the force accumulator at zero.
type Integrator interface {
	Step(b Body)
}

// ValidateMass rejects zero, negative and NaN masses.
func ValidateMass(m float64) error {
	if !(m > 0) || math.IsInf(m, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidMass, m)
	}
	return nil
}

// ValidateExtent rejects negative or NaN shape extents.
func ValidateExtent(values ...float64) error {
	for _, v := range values {
		if !(v >= 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidExtent, v)
		}
	}
	return nil
}
