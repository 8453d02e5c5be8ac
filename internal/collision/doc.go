// Package collision implements discrete, position-based collision detection
// and penalty resolution.
//
// Detection routines return a [Contact] whose Normal points from the first
// shape to the second (or from the boundary center to the body) and whose
// Overlap is the positive penetration depth. Resolvers push bodies apart by
// the overlap, mass-weighted so the lighter body moves more, and inject a
// compensating force that the next tick's integrator consumes.
//
// Zero-length offsets never produce NaN: the normal falls back to
// [dynamo.FallbackNormal] and the contact is flagged Degenerate.
package collision
