package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/integrators"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/sim"
)

// containmentTolerance is how far past a contain boundary a circle may sit
// before the containment metric counts it.
const containmentTolerance = 1.0

type Registry struct {
	integrators map[string]func(dt float64) dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(dt float64) dynamo.Integrator),
	}

	r.integrators["symplectic"] = func(dt float64) dynamo.Integrator { return integrators.NewSymplecticEuler(dt) }
	r.integrators["euler"] = func(dt float64) dynamo.Integrator { return integrators.NewEuler(dt) }

	return r
}

func (r *Registry) GetIntegrator(name string, dt float64) (dynamo.Integrator, error) {
	if name == "" {
		name = config.DefaultIntegrator
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown integrator: %s", dynamo.ErrParameterBounds, name)
	}
	return fn(dt), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewPeakEnergy(),
		metrics.NewContacts(),
		metrics.NewMaxOverlap(),
	}
	if bd, err := cfg.WorldBoundary(); err == nil && bd != nil && bd.Mode == collision.Contain {
		ms = append(ms, metrics.NewContainment(*bd, containmentTolerance))
	}
	return ms
}
