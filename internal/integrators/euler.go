package integrators

import "github.com/san-kum/rigid2d/internal/dynamo"

// SymplecticEuler is the semi-implicit Euler step: the velocity is updated
// from the current force before the position moves.
type SymplecticEuler struct {
	Dt float64
}

func NewSymplecticEuler(dt float64) *SymplecticEuler {
	if dt <= 0 {
		dt = 1
	}
	return &SymplecticEuler{Dt: dt}
}

func (e *SymplecticEuler) Step(b dynamo.Body) {
	p := b.State()
	p.Velocity = p.Velocity.Add(p.Force.Scale(e.Dt / p.Mass))
	p.Force = dynamo.Vec2{}
	p.Position = p.Position.Add(p.Velocity.Scale(e.Dt))
}

// Euler is the explicit variant: the position advances with the velocity
// of the previous tick.
type Euler struct {
	Dt float64
}

func NewEuler(dt float64) *Euler {
	if dt <= 0 {
		dt = 1
	}
	return &Euler{Dt: dt}
}

func (e *Euler) Step(b dynamo.Body) {
	p := b.State()
	p.Position = p.Position.Add(p.Velocity.Scale(e.Dt))
	p.Velocity = p.Velocity.Add(p.Force.Scale(e.Dt / p.Mass))
	p.Force = dynamo.Vec2{}
}
