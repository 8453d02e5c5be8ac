package sim

import (
	"math"

	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/dynamo"
)

type Config struct {
	// Gravity is applied along +Y, scaled by each body's mass.
	Gravity float64
	// Dt is the integration step in ticks.
	Dt       float64
	Boundary *collision.Boundary
	// ResolveRects turns on positional resolution for rectangle overlaps.
	// When false they are only detected and counted.
	ResolveRects  bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Gravity:       0,
		Dt:            1,
		ValidateState: true,
	}
}

// TickStats counts what the collision pass saw during the last tick.
type TickStats struct {
	CircleContacts   int
	BoundaryContacts int
	RectOverlaps     int
	Degenerate       int
	MaxOverlap       float64
}

func (t TickStats) Contacts() int {
	return t.CircleContacts + t.BoundaryContacts + t.RectOverlaps
}

// Frame is a copy of the simulation state after a tick. It is what the
// renderer and recorders read.
type Frame struct {
	Tick    uint64
	Circles []dynamo.Circle
	Rects   []dynamo.Rect
	Stats   TickStats
}

// Bounds returns the smallest box holding every body in the frame.
// ok is false for an empty frame.
func (f *Frame) Bounds() (lo, hi dynamo.Vec2, ok bool) {
	lo = dynamo.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi = dynamo.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(a, b dynamo.Vec2) {
		lo = dynamo.Vec2{X: math.Min(lo.X, a.X), Y: math.Min(lo.Y, a.Y)}
		hi = dynamo.Vec2{X: math.Max(hi.X, b.X), Y: math.Max(hi.Y, b.Y)}
	}
	for _, c := range f.Circles {
		r := dynamo.Vec2{X: c.Radius, Y: c.Radius}
		grow(c.Position.Sub(r), c.Position.Add(r))
	}
	for i := range f.Rects {
		grow(f.Rects[i].Min(), f.Rects[i].Max())
	}
	if len(f.Circles)+len(f.Rects) == 0 {
		return dynamo.Vec2{}, dynamo.Vec2{}, false
	}
	return lo, hi, true
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f *Frame)
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	TicksTaken uint64
	Errors     []error
}
