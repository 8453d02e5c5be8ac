package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/experiment"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted list of scene runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one preset or scene file. Zero overrides keep the
// scene's own values, except Gravity which applies when set.
type ScenarioStep struct {
	Preset     string   `yaml:"preset"`
	Config     string   `yaml:"config"`
	Integrator string   `yaml:"integrator"`
	Ticks      int      `yaml:"ticks"`
	Dt         float64  `yaml:"dt"`
	Gravity    *float64 `yaml:"gravity"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Scene resolves the step into a scene config.
func (s ScenarioStep) Scene() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets())
		}
	default:
		return nil, fmt.Errorf("%w: step needs a preset or config", dynamo.ErrParameterBounds)
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Gravity != nil {
		cfg.Gravity = *s.Gravity
	}
	return cfg, nil
}

func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger) ([]sim.Result, error) {
	results := make([]sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Scene()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if logger != nil {
			logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "scene", cfg.Name)
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, *result)
	}

	return results, nil
}

// ParameterSweep reruns a scene across evenly spaced values of one
// parameter: "gravity" or "dt".
type ParameterSweep struct {
	Scene     *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue   float64
	PeakEnergy   float64
	MeanContacts float64
	MaxOverlap   float64
	Failed       bool
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps", dynamo.ErrParameterBounds)
	}

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	results := make([]SweepResult, 0, sweep.NumSteps)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := sweep.Scene.Clone()
		switch sweep.ParamName {
		case "gravity":
			cfg.Gravity = paramVal
		case "dt":
			cfg.Dt = paramVal
		default:
			return nil, fmt.Errorf("%w: cannot sweep %q", dynamo.ErrParameterBounds, sweep.ParamName)
		}

		exp := experiment.New(cfg, nil)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:   paramVal,
			PeakEnergy:   result.Metrics["peak_energy"],
			MeanContacts: result.Metrics["contacts"],
			MaxOverlap:   result.Metrics["max_overlap"],
			Failed:       len(result.Errors) > 0,
		})
	}

	return results, nil
}

// MonteCarloConfig perturbs every body's starting position by up to
// Perturbation in each axis.
type MonteCarloConfig struct {
	Scene        *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID    int
	FinalFrame sim.Frame
	// Stable is true when the run kept a valid state and no circle ended
	// on the wrong side of the boundary.
	Stable bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func() float64 { return (rng.Float64()*2 - 1) * cfg.Perturbation }

	for trial := 0; trial < cfg.NumTrials; trial++ {
		scene := cfg.Scene.Clone()
		for i := range scene.Circles {
			scene.Circles[i].Position[0] += jitter()
			scene.Circles[i].Position[1] += jitter()
		}
		for i := range scene.Rects {
			scene.Rects[i].Position[0] += jitter()
			scene.Rects[i].Position[1] += jitter()
		}

		exp := experiment.New(scene, nil)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		final := result.Frames[len(result.Frames)-1]
		stable := len(result.Errors) == 0
		if bd, _ := scene.WorldBoundary(); stable && bd != nil {
			check := metrics.NewContainment(*bd, 1.0)
			check.Observe(&final)
			stable = check.Value() == 1
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			FinalFrame: final,
			Stable:     stable,
		})
	}

	return results, nil
}
