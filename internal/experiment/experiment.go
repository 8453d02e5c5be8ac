package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/sim"
)

var ErrNotSetup = errors.New("experiment: not set up")

type Experiment struct {
	cfg        *config.Config
	logger     *log.Logger
	simulation *sim.Simulation
}

func New(cfg *config.Config, logger *log.Logger) *Experiment {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Build validates the scene and returns a simulation holding its bodies,
// in file order.
func Build(cfg *config.Config, reg *Registry, logger *log.Logger) (*sim.Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	integrator, err := reg.GetIntegrator(cfg.Integrator, cfg.Dt)
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{sim.WithIntegrator(integrator)}
	if logger != nil {
		opts = append(opts, sim.WithLogger(logger))
	}
	s, err := sim.New(simCfg, opts...)
	if err != nil {
		return nil, err
	}

	for _, c := range cfg.CircleBodies() {
		if _, err := s.AddCircle(c); err != nil {
			return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
		}
	}
	for _, r := range cfg.RectBodies() {
		if _, err := s.AddRect(r); err != nil {
			return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
		}
	}
	return s, nil
}

func (e *Experiment) Setup(reg *Registry) error {
	s, err := Build(e.cfg, reg, e.logger)
	if err != nil {
		return err
	}
	for _, m := range reg.DefaultMetrics(e.cfg) {
		s.AddMetric(m)
	}
	e.simulation = s
	e.logger.Debug("scene ready", "name", e.cfg.Name, "circles", s.NumCircles(), "rects", s.NumRects())
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulation == nil {
		return nil, ErrNotSetup
	}
	res, err := e.simulation.Run(ctx, e.cfg.Ticks, e.cfg.Sample)
	if err != nil {
		return res, err
	}
	for _, rerr := range res.Errors {
		e.logger.Warn("run stopped", "name", e.cfg.Name, "err", rerr)
	}
	return res, nil
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.simulation
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
