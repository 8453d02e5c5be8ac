package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/integrators"
)

func newSim(cfg Config, opts ...Option) *Simulation {
	s, err := New(cfg, opts...)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func addCircle(s *Simulation, x, y, r, m float64) int {
	idx, err := s.AddCircle(*dynamo.NewCircle(dynamo.Vec2{X: x, Y: y}, r, m))
	Expect(err).NotTo(HaveOccurred())
	return idx
}

func circleOverlap(a, b dynamo.Circle) float64 {
	return a.Radius + b.Radius - b.Position.Sub(a.Position).Len()
}

type nanForce struct{}

func (nanForce) Apply(b dynamo.Body) { b.ApplyForce(dynamo.Vec2{X: math.NaN()}) }

type countingMetric struct{ n int }

func (c *countingMetric) Name() string     { return "count" }
func (c *countingMetric) Observe(f *Frame) { c.n++ }
func (c *countingMetric) Value() float64   { return float64(c.n) }
func (c *countingMetric) Reset()           { c.n = 0 }

var _ = Describe("Simulation", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = DefaultConfig()
	})

	Describe("construction", func() {
		It("rejects a non-positive dt", func() {
			cfg.Dt = 0
			_, err := New(cfg)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects a non-positive boundary radius", func() {
			cfg.Boundary = &collision.Boundary{Radius: 0}
			_, err := New(cfg)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects invalid masses at creation", func() {
			s := newSim(cfg)
			for _, m := range []float64{0, -1, math.NaN()} {
				_, err := s.AddCircle(*dynamo.NewCircle(dynamo.Vec2{}, 1, m))
				Expect(err).To(MatchError(dynamo.ErrInvalidMass))
				_, err = s.AddRect(*dynamo.NewRect(dynamo.Vec2{}, dynamo.Vec2{X: 1, Y: 1}, m))
				Expect(err).To(MatchError(dynamo.ErrInvalidMass))
			}
			Expect(s.NumCircles()).To(Equal(0))
			Expect(s.NumRects()).To(Equal(0))
		})

		It("rejects negative extents", func() {
			s := newSim(cfg)
			_, err := s.AddCircle(*dynamo.NewCircle(dynamo.Vec2{}, -1, 1))
			Expect(err).To(MatchError(dynamo.ErrInvalidExtent))
			_, err = s.AddRect(*dynamo.NewRect(dynamo.Vec2{}, dynamo.Vec2{X: 1, Y: -1}, 1))
			Expect(err).To(MatchError(dynamo.ErrInvalidExtent))
		})

		It("rejects circles that cannot fit the boundary", func() {
			cfg.Boundary = &collision.Boundary{Radius: 10}
			s := newSim(cfg)
			_, err := s.AddCircle(*dynamo.NewCircle(dynamo.Vec2{}, 11, 1))
			Expect(err).To(MatchError(dynamo.ErrDoesNotFit))
		})

		It("appends bodies in insertion order", func() {
			s := newSim(cfg)
			Expect(addCircle(s, 0, 0, 1, 1)).To(Equal(0))
			Expect(addCircle(s, 100, 0, 2, 1)).To(Equal(1))
			Expect(s.Circle(1).Radius).To(Equal(2.0))
		})
	})

	Describe("integration", func() {
		It("advances position by velocity when no force acts", func() {
			s := newSim(cfg)
			c := dynamo.NewCircle(dynamo.Vec2{X: 10, Y: 10}, 1, 2)
			c.Velocity = dynamo.Vec2{X: 3, Y: 4}
			_, err := s.AddCircle(*c)
			Expect(err).NotTo(HaveOccurred())

			s.Tick()

			got := s.Circle(0)
			Expect(got.Velocity).To(Equal(dynamo.Vec2{X: 3, Y: 4}))
			Expect(got.Position).To(Equal(dynamo.Vec2{X: 13, Y: 14}))
		})

		It("gains velocity g along the gravity axis in one tick", func() {
			cfg.Gravity = 0.25
			s := newSim(cfg)
			addCircle(s, 0, 0, 1, 4)
			_, err := s.AddRect(*dynamo.NewRect(dynamo.Vec2{X: 100}, dynamo.Vec2{X: 1, Y: 1}, 2))
			Expect(err).NotTo(HaveOccurred())

			s.Tick()

			Expect(s.Circle(0).Velocity).To(Equal(dynamo.Vec2{X: 0, Y: 0.25}))
			Expect(s.Rect(0).Velocity).To(Equal(dynamo.Vec2{X: 0, Y: 0.25}))
		})

		It("leaves the force accumulator empty when nothing collides", func() {
			cfg.Gravity = 0.1
			s := newSim(cfg)
			addCircle(s, 0, 0, 1, 1)
			addCircle(s, 50, 0, 1, 3)

			for i := 0; i < 5; i++ {
				s.Tick()
				for _, c := range s.Circles() {
					Expect(c.Force).To(Equal(dynamo.Vec2{}))
				}
			}
		})

		It("uses the configured integrator", func() {
			s := newSim(cfg, WithIntegrator(integrators.NewEuler(1)))
			c := dynamo.NewCircle(dynamo.Vec2{}, 1, 1)
			c.Force = dynamo.Vec2{X: 2}
			_, err := s.AddCircle(*c)
			Expect(err).NotTo(HaveOccurred())

			s.Tick()

			Expect(s.Circle(0).Position).To(Equal(dynamo.Vec2{}))
			Expect(s.Circle(0).Velocity).To(Equal(dynamo.Vec2{X: 2}))
		})

		It("applies gravity changes between ticks", func() {
			s := newSim(cfg)
			addCircle(s, 0, 0, 1, 1)
			s.Tick()
			s.SetGravity(-0.5)
			s.Tick()

			Expect(s.Gravity()).To(Equal(-0.5))
			Expect(s.Config().Gravity).To(Equal(-0.5))
			Expect(s.Circle(0).Velocity).To(Equal(dynamo.Vec2{X: 0, Y: -0.5}))
		})
	})

	Describe("circle collisions", func() {
		It("separates equal-mass circles without diverging", func() {
			s := newSim(cfg)
			addCircle(s, 0, 0, 10, 1)
			addCircle(s, 15, 0, 10, 1)

			prev := circleOverlap(s.Circle(0), s.Circle(1))
			Expect(prev).To(BeNumerically("~", 5, 1e-12))
			for i := 0; i < 20; i++ {
				s.Tick()
				cur := circleOverlap(s.Circle(0), s.Circle(1))
				Expect(cur).To(BeNumerically("<=", prev+1e-12))
				prev = cur
			}
			Expect(prev).To(BeNumerically("<=", 0))
		})

		It("moves the lighter body twice as far when masses are 2:1", func() {
			s := newSim(cfg)
			addCircle(s, 0, 0, 10, 2)
			addCircle(s, 15, 0, 10, 1)

			s.Tick()

			heavy := math.Abs(s.Circle(0).Position.X - 0)
			light := math.Abs(s.Circle(1).Position.X - 15)
			Expect(light).To(BeNumerically("~", 2*heavy, 1e-9))
			Expect(s.Circle(0).Position.X).To(BeNumerically("<", 0))
			Expect(s.Circle(1).Position.X).To(BeNumerically(">", 15))
		})

		It("injects the penalty force with the smaller mass", func() {
			s := newSim(cfg)
			addCircle(s, 0, 0, 10, 2)
			addCircle(s, 15, 0, 10, 1)

			s.Tick()

			Expect(s.Circle(0).Force.X).To(BeNumerically("~", -5, 1e-12))
			Expect(s.Circle(1).Force.X).To(BeNumerically("~", 5, 1e-12))
			Expect(s.Stats().CircleContacts).To(Equal(1))
		})

		It("resolves pairs in ascending index order", func() {
			s := newSim(cfg)
			addCircle(s, 0, 0, 10, 1)
			addCircle(s, 15, 0, 10, 1)
			addCircle(s, 25, 0, 10, 1)

			s.Tick()

			Expect(s.Circle(0).Position.X).To(Equal(-2.5))
			Expect(s.Circle(1).Position.X).To(Equal(11.25))
			Expect(s.Circle(2).Position.X).To(Equal(31.25))
			Expect(s.Stats().CircleContacts).To(Equal(2))
		})

		It("does not produce NaN for coincident circles", func() {
			s := newSim(cfg)
			addCircle(s, 5, 5, 2, 1)
			addCircle(s, 5, 5, 2, 1)

			s.Tick()

			for _, c := range s.Circles() {
				Expect(c.IsValid()).To(BeTrue())
			}
			Expect(s.Stats().Degenerate).To(Equal(1))
			Expect(s.Circle(0).Position.X).To(BeNumerically("<", s.Circle(1).Position.X))
		})
	})

	Describe("boundary", func() {
		It("pulls a circle back inside", func() {
			cfg.Boundary = &collision.Boundary{Radius: 100}
			s := newSim(cfg)
			addCircle(s, 95, 0, 10, 1)

			s.Tick()

			dist := s.Circle(0).Position.Len()
			Expect(dist).To(BeNumerically("<=", 90+1e-9))
			Expect(s.Stats().BoundaryContacts).To(Equal(1))

			for i := 0; i < 10; i++ {
				s.Tick()
				Expect(s.Circle(0).Position.Len()).To(BeNumerically("<=", 90+1e-9))
			}
		})

		It("keeps circles outside an exclude boundary", func() {
			cfg.Boundary = &collision.Boundary{Radius: 10, Mode: collision.Exclude}
			s := newSim(cfg)
			addCircle(s, 12, 0, 5, 1)

			s.Tick()

			Expect(s.Circle(0).Position.Len()).To(BeNumerically(">=", 15-1e-9))
		})

		It("matches the falling-circle scenario", func() {
			cfg.Gravity = 0.1
			cfg.Boundary = &collision.Boundary{Center: dynamo.Vec2{X: 500, Y: 500}, Radius: 500}
			s := newSim(cfg)
			c := dynamo.NewCircle(dynamo.Vec2{X: 500, Y: 900}, 100, 1)
			c.Force = dynamo.Vec2{X: 1000, Y: 0}
			_, err := s.AddCircle(*c)
			Expect(err).NotTo(HaveOccurred())

			s.Tick()

			got := s.Circle(0)
			Expect(got.Velocity).To(Equal(dynamo.Vec2{X: 1000, Y: 0.1}))

			center := dynamo.Vec2{X: 500, Y: 500}
			Expect(got.Position.Sub(center).Len()).To(BeNumerically("~", 400, 1e-9))

			unclamped := dynamo.Vec2{X: 1500, Y: 900.1}
			overlap := unclamped.Sub(center).Len() + 100 - 500
			Expect(got.Force.Len()).To(BeNumerically("~", overlap, 1e-6))
			Expect(got.Force.Dot(unclamped.Sub(center))).To(BeNumerically("<", 0))
		})
	})

	Describe("rectangles", func() {
		var a, b dynamo.Rect

		BeforeEach(func() {
			a = *dynamo.NewRect(dynamo.Vec2{}, dynamo.Vec2{X: 10, Y: 10}, 1)
			b = *dynamo.NewRect(dynamo.Vec2{X: 8}, dynamo.Vec2{X: 10, Y: 10}, 1)
		})

		It("detects overlaps without resolving them by default", func() {
			s := newSim(cfg)
			_, _ = s.AddRect(a)
			_, _ = s.AddRect(b)

			s.Tick()

			Expect(s.Stats().RectOverlaps).To(Equal(1))
			Expect(s.Rect(0).Position).To(Equal(a.Position))
			Expect(s.Rect(1).Position).To(Equal(b.Position))
		})

		It("resolves overlaps when enabled", func() {
			cfg.ResolveRects = true
			s := newSim(cfg)
			_, _ = s.AddRect(a)
			_, _ = s.AddRect(b)

			s.Tick()

			Expect(s.Stats().RectOverlaps).To(Equal(1))
			Expect(s.Rect(0).Position.X).To(Equal(-1.0))
			Expect(s.Rect(1).Position.X).To(Equal(9.0))
		})
	})

	Describe("read access", func() {
		It("returns copies", func() {
			s := newSim(cfg)
			addCircle(s, 1, 1, 1, 1)

			cs := s.Circles()
			cs[0].Position = dynamo.Vec2{X: 99}
			f := s.Frame()
			f.Circles[0].Radius = 42

			Expect(s.Circle(0).Position).To(Equal(dynamo.Vec2{X: 1, Y: 1}))
			Expect(s.Circle(0).Radius).To(Equal(1.0))
		})
	})

	Describe("Run", func() {
		It("samples frames and feeds metrics every tick", func() {
			s := newSim(cfg)
			addCircle(s, 0, 0, 1, 1)
			m := &countingMetric{}
			s.AddMetric(m)

			result, err := s.Run(context.Background(), 10, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Frames).To(HaveLen(3))
			Expect(result.Frames[0].Tick).To(Equal(uint64(0)))
			Expect(result.Frames[2].Tick).To(Equal(uint64(10)))
			Expect(result.TicksTaken).To(Equal(uint64(10)))
			Expect(result.Metrics["count"]).To(Equal(10.0))
		})

		It("rejects a non-positive tick count", func() {
			s := newSim(cfg)
			_, err := s.Run(context.Background(), 0, 1)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("stops when the context is canceled", func() {
			s := newSim(cfg)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := s.Run(ctx, 100, 1)
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.TicksTaken).To(Equal(uint64(0)))
		})

		It("flags invalid states", func() {
			s := newSim(cfg, WithForce(nanForce{}))
			addCircle(s, 0, 0, 1, 1)

			result, err := s.Run(context.Background(), 10, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0]).To(MatchError(dynamo.ErrInvalidState))
			Expect(result.TicksTaken).To(Equal(uint64(1)))
		})
	})
})
