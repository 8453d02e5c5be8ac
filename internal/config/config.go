package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 1.0
	DefaultTicks      = 600
	DefaultFPS        = 60
	DefaultSample     = 1
	DefaultIntegrator = "symplectic"
)

// Vec is a YAML-friendly [x, y] pair.
type Vec [2]float64

func (v Vec) Vec2() dynamo.Vec2 { return dynamo.Vec2{X: v[0], Y: v[1]} }

type Config struct {
	Name         string          `yaml:"name"`
	Integrator   string          `yaml:"integrator"`
	Gravity      float64         `yaml:"gravity"`
	Dt           float64         `yaml:"dt"`
	Ticks        int             `yaml:"ticks"`
	FPS          int             `yaml:"fps"`
	Sample       int             `yaml:"sample"`
	ResolveRects bool            `yaml:"resolve_rects"`
	Boundary     *BoundaryConfig `yaml:"boundary,omitempty"`
	Circles      []CircleConfig  `yaml:"circles,omitempty"`
	Rects        []RectConfig    `yaml:"rects,omitempty"`
}

type BoundaryConfig struct {
	Center Vec     `yaml:"center"`
	Radius float64 `yaml:"radius"`
	Mode   string  `yaml:"mode,omitempty"`
}

type BodyConfig struct {
	Position Vec     `yaml:"position"`
	Velocity Vec     `yaml:"velocity"`
	Force    Vec     `yaml:"force"`
	Mass     float64 `yaml:"mass"`
}

type CircleConfig struct {
	BodyConfig `yaml:",inline"`
	Radius     float64 `yaml:"radius"`
}

type RectConfig struct {
	BodyConfig `yaml:",inline"`
	Size       Vec `yaml:"size"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "custom",
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Ticks:      DefaultTicks,
		FPS:        DefaultFPS,
		Sample:     DefaultSample,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scene before any simulation is built. All problems
// are reported together.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Dt > 0) {
		errs = append(errs, fmt.Errorf("%w: dt must be positive, got %v", dynamo.ErrParameterBounds, c.Dt))
	}
	if c.Ticks <= 0 {
		errs = append(errs, fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrParameterBounds, c.Ticks))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: fps must be positive, got %d", dynamo.ErrParameterBounds, c.FPS))
	}
	if _, err := c.WorldBoundary(); err != nil {
		errs = append(errs, err)
	}
	for i, cc := range c.Circles {
		if err := dynamo.ValidateMass(cc.Mass); err != nil {
			errs = append(errs, fmt.Errorf("circles[%d]: %w", i, err))
		}
		if err := dynamo.ValidateExtent(cc.Radius); err != nil {
			errs = append(errs, fmt.Errorf("circles[%d]: %w", i, err))
		}
	}
	for i, rc := range c.Rects {
		if err := dynamo.ValidateMass(rc.Mass); err != nil {
			errs = append(errs, fmt.Errorf("rects[%d]: %w", i, err))
		}
		if err := dynamo.ValidateExtent(rc.Size[0], rc.Size[1]); err != nil {
			errs = append(errs, fmt.Errorf("rects[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// WorldBoundary converts the boundary section; nil means no boundary.
func (c *Config) WorldBoundary() (*collision.Boundary, error) {
	if c.Boundary == nil {
		return nil, nil
	}
	mode, err := collision.ParseBoundaryMode(c.Boundary.Mode)
	if err != nil {
		return nil, err
	}
	if !(c.Boundary.Radius > 0) {
		return nil, fmt.Errorf("%w: boundary radius must be positive, got %v", dynamo.ErrParameterBounds, c.Boundary.Radius)
	}
	return &collision.Boundary{
		Center: c.Boundary.Center.Vec2(),
		Radius: c.Boundary.Radius,
		Mode:   mode,
	}, nil
}

func (c *Config) SimConfig() (sim.Config, error) {
	bd, err := c.WorldBoundary()
	if err != nil {
		return sim.Config{}, err
	}
	cfg := sim.DefaultConfig()
	cfg.Gravity = c.Gravity
	cfg.Dt = c.Dt
	cfg.Boundary = bd
	cfg.ResolveRects = c.ResolveRects
	return cfg, nil
}

func (b BodyConfig) pointMass() dynamo.PointMass {
	return dynamo.PointMass{
		Position: b.Position.Vec2(),
		Velocity: b.Velocity.Vec2(),
		Force:    b.Force.Vec2(),
		Mass:     b.Mass,
	}
}

func (c *Config) CircleBodies() []dynamo.Circle {
	out := make([]dynamo.Circle, len(c.Circles))
	for i, cc := range c.Circles {
		out[i] = dynamo.Circle{PointMass: cc.pointMass(), Radius: cc.Radius}
	}
	return out
}

func (c *Config) RectBodies() []dynamo.Rect {
	out := make([]dynamo.Rect, len(c.Rects))
	for i, rc := range c.Rects {
		out[i] = dynamo.Rect{PointMass: rc.pointMass(), Size: rc.Size.Vec2()}
	}
	return out
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Boundary != nil {
		b := *c.Boundary
		cp.Boundary = &b
	}
	cp.Circles = append([]CircleConfig(nil), c.Circles...)
	cp.Rects = append([]RectConfig(nil), c.Rects...)
	return &cp
}
