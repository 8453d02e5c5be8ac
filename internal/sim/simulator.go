package sim

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/forces"
	"github.com/san-kum/rigid2d/internal/integrators"
)

// Simulation owns every body and advances them one tick at a time.
// It is not safe for concurrent use.
type Simulation struct {
	cfg        Config
	gravity    *forces.Gravity
	forces     []dynamo.ForceGenerator
	integrator dynamo.Integrator
	circles    []dynamo.Circle
	rects      []dynamo.Rect
	tick       uint64
	stats      TickStats
	metrics    []Metric
	observers  []Observer
	logger     *log.Logger
}

type Option func(*Simulation)

func WithIntegrator(i dynamo.Integrator) Option {
	return func(s *Simulation) { s.integrator = i }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithForce registers an extra force generator, applied after gravity.
func WithForce(f dynamo.ForceGenerator) Option {
	return func(s *Simulation) { s.forces = append(s.forces, f) }
}

func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	gravity := forces.NewGravity(cfg.Gravity)
	s := &Simulation{
		cfg:        cfg,
		gravity:    gravity,
		forces:     []dynamo.ForceGenerator{gravity},
		integrator: integrators.NewSymplecticEuler(cfg.Dt),
		circles:    make([]dynamo.Circle, 0),
		rects:      make([]dynamo.Rect, 0),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if math.IsNaN(cfg.Gravity) || math.IsInf(cfg.Gravity, 0) {
		return fmt.Errorf("%w: gravity must be finite, got %f", dynamo.ErrParameterBounds, cfg.Gravity)
	}
	if b := cfg.Boundary; b != nil {
		if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
			return fmt.Errorf("%w: boundary radius must be positive, got %f", dynamo.ErrParameterBounds, b.Radius)
		}
		if !b.Center.IsValid() {
			return fmt.Errorf("%w: boundary center must be finite", dynamo.ErrParameterBounds)
		}
	}
	return nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// AddCircle appends a circle and returns its index.
func (s *Simulation) AddCircle(c dynamo.Circle) (int, error) {
	idx := len(s.circles)
	if err := validateBody(&c.PointMass); err != nil {
		return -1, fmt.Errorf("circle %d: %w", idx, err)
	}
	if err := dynamo.ValidateExtent(c.Radius); err != nil {
		return -1, fmt.Errorf("circle %d: %w", idx, err)
	}
	if b := s.cfg.Boundary; b != nil && !b.Fits(c.Radius) {
		return -1, fmt.Errorf("circle %d: %w (radius %.2f > %.2f)", idx, dynamo.ErrDoesNotFit, c.Radius, b.Radius)
	}
	s.circles = append(s.circles, c)
	return idx, nil
}

// AddRect appends a rectangle and returns its index.
func (s *Simulation) AddRect(r dynamo.Rect) (int, error) {
	idx := len(s.rects)
	if err := validateBody(&r.PointMass); err != nil {
		return -1, fmt.Errorf("rect %d: %w", idx, err)
	}
	if err := dynamo.ValidateExtent(r.Size.X, r.Size.Y); err != nil {
		return -1, fmt.Errorf("rect %d: %w", idx, err)
	}
	s.rects = append(s.rects, r)
	return idx, nil
}

func validateBody(p *dynamo.PointMass) error {
	if err := dynamo.ValidateMass(p.Mass); err != nil {
		return err
	}
	if !p.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}

func (s *Simulation) SetGravity(g float64) { s.gravity.G = g }
func (s *Simulation) Gravity() float64     { return s.gravity.G }

func (s *Simulation) Config() Config {
	cfg := s.cfg
	cfg.Gravity = s.gravity.G
	return cfg
}

func (s *Simulation) TickCount() uint64 { return s.tick }
func (s *Simulation) Stats() TickStats  { return s.stats }

func (s *Simulation) NumCircles() int { return len(s.circles) }
func (s *Simulation) NumRects() int   { return len(s.rects) }

func (s *Simulation) Circle(i int) dynamo.Circle { return s.circles[i] }
func (s *Simulation) Rect(i int) dynamo.Rect     { return s.rects[i] }

func (s *Simulation) Circles() []dynamo.Circle { return slices.Clone(s.circles) }
func (s *Simulation) Rects() []dynamo.Rect     { return slices.Clone(s.rects) }

func (s *Simulation) Frame() Frame {
	return Frame{
		Tick:    s.tick,
		Circles: s.Circles(),
		Rects:   s.Rects(),
		Stats:   s.stats,
	}
}

// Tick runs one step: accumulate forces, integrate, then detect and resolve
// collisions in ascending pair order.
func (s *Simulation) Tick() {
	s.stats = TickStats{}

	for i := range s.circles {
		s.accumulate(&s.circles[i])
	}
	for i := range s.rects {
		s.accumulate(&s.rects[i])
	}

	for i := range s.circles {
		s.integrator.Step(&s.circles[i])
	}
	for i := range s.rects {
		s.integrator.Step(&s.rects[i])
	}

	s.collideCircles()
	if s.cfg.Boundary != nil {
		s.collideBoundary(*s.cfg.Boundary)
	}
	s.collideRects()

	s.tick++
}

func (s *Simulation) accumulate(b dynamo.Body) {
	for _, f := range s.forces {
		f.Apply(b)
	}
}

func (s *Simulation) collideCircles() {
	for i := 0; i < len(s.circles); i++ {
		a := &s.circles[i]
		for j := i + 1; j < len(s.circles); j++ {
			b := &s.circles[j]
			c, ok := collision.CircleCircle(a, b)
			if !ok {
				continue
			}
			s.record(c, "circle", i, j)
			s.stats.CircleContacts++
			collision.ResolveCircles(a, b, c)
		}
	}
}

func (s *Simulation) collideBoundary(bd collision.Boundary) {
	for i := range s.circles {
		c := &s.circles[i]
		contact, ok := collision.CircleBoundary(c, bd)
		if !ok {
			continue
		}
		s.record(contact, "boundary", i, -1)
		s.stats.BoundaryContacts++
		collision.ResolveBoundary(c, bd, contact)
	}
}

func (s *Simulation) collideRects() {
	for i := 0; i < len(s.rects); i++ {
		a := &s.rects[i]
		for j := i + 1; j < len(s.rects); j++ {
			b := &s.rects[j]
			if !s.cfg.ResolveRects {
				if collision.RectRect(a, b) {
					s.stats.RectOverlaps++
				}
				continue
			}
			c, ok := collision.RectPenetration(a, b)
			if !ok {
				continue
			}
			s.record(c, "rect", i, j)
			s.stats.RectOverlaps++
			collision.ResolveRects(a, b, c)
		}
	}
}

func (s *Simulation) record(c collision.Contact, kind string, a, b int) {
	if c.Overlap > s.stats.MaxOverlap {
		s.stats.MaxOverlap = c.Overlap
	}
	if c.Degenerate {
		s.stats.Degenerate++
		s.logger.Debug("degenerate contact", "kind", kind, "tick", s.tick, "a", a, "b", b)
	}
}

// Run advances the simulation for the given number of ticks, keeping every
// sampleEvery-th frame (plus the initial and final ones).
func (s *Simulation) Run(ctx context.Context, ticks int, sampleEvery int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrParameterBounds, ticks)
	}
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, ticks/sampleEvery+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.Frame())

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Tick()
		result.TicksTaken++

		f := s.Frame()
		for _, m := range s.metrics {
			m.Observe(&f)
		}
		for _, obs := range s.observers {
			obs.OnTick(&f)
		}

		if s.cfg.ValidateState {
			if err := s.validateState(); err != nil {
				result.Errors = append(result.Errors, err)
				result.Frames = append(result.Frames, f)
				break
			}
		}

		if (i+1)%sampleEvery == 0 || i == ticks-1 {
			result.Frames = append(result.Frames, f)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulation) validateState() error {
	for i := range s.circles {
		if !s.circles[i].IsValid() {
			return &dynamo.SimulationError{Tick: s.tick, Body: fmt.Sprintf("circle %d", i), Wrapped: dynamo.ErrInvalidState}
		}
	}
	for i := range s.rects {
		if !s.rects[i].IsValid() {
			return &dynamo.SimulationError{Tick: s.tick, Body: fmt.Sprintf("rect %d", i), Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}
