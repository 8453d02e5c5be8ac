// Package dynamo provides the core primitives of the rigid-body sandbox.
//
// The package defines the body state shared by every shape and the
// interfaces the orchestrator composes each tick:
//
//   - [Vec2]: 2D point/vector in world units
//   - [PointMass]: position, velocity, accumulated force and mass
//   - [Circle], [Rect]: shape variants embedding [PointMass]
//   - [Body]: capability interface implemented by every shape
//   - [ForceGenerator]: adds per-tick external forces
//   - [Integrator]: advances a body and clears its force accumulator
//
// # Example
//
//	c := dynamo.NewCircle(dynamo.Vec2{X: 500, Y: 900}, 100, 1)
//	forces.NewGravity(0.1).Apply(c)
//	integrators.NewSymplecticEuler(1).Step(c)
//
// # Units
//
// All quantities share the coordinate space of the scene: one time unit is
// one tick, +Y points down.
package dynamo
