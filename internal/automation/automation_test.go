package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/experiment"
)

func TestLoadAndRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := []byte(`name: smoke
steps:
  - preset: drift
    ticks: 5
  - preset: falling
    ticks: 3
    gravity: 0
    integrator: euler
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(scenario.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(scenario.Steps))
	}

	cfg, err := scenario.Steps[1].Scene()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gravity != 0 || cfg.Integrator != "euler" || cfg.Ticks != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	results, err := RunScenario(context.Background(), scenario, experiment.NewRegistry(), nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 || results[0].TicksTaken != 5 || results[1].TicksTaken != 3 {
		t.Errorf("unexpected results: %d", len(results))
	}
}

func TestScenarioStepNeedsScene(t *testing.T) {
	if _, err := (ScenarioStep{}).Scene(); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if _, err := (ScenarioStep{Preset: "nope"}).Scene(); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestRunSweep(t *testing.T) {
	scene := config.GetPreset("drift")
	scene.Ticks = 4

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Scene:     scene,
		ParamName: "gravity",
		ParamMin:  0,
		ParamMax:  1,
		NumSteps:  3,
	}, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].ParamValue != 0.5 {
		t.Errorf("expected midpoint 0.5, got %f", results[1].ParamValue)
	}
	if !(results[2].PeakEnergy > results[0].PeakEnergy) {
		t.Error("stronger gravity should raise peak energy")
	}
	if scene.Gravity != 0 {
		t.Error("sweep mutated the base scene")
	}
}

func TestRunSweepUnknownParam(t *testing.T) {
	_, err := RunSweep(context.Background(), &ParameterSweep{
		Scene: config.GetPreset("drift"), ParamName: "friction", NumSteps: 2,
	}, experiment.NewRegistry())
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestRunMonteCarlo(t *testing.T) {
	scene := config.GetPreset("pair")
	scene.Ticks = 20

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Scene:        scene,
		Perturbation: 5,
		NumTrials:    3,
		Seed:         42,
	}, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(results))
	}
	for _, r := range results {
		if len(r.FinalFrame.Circles) != 2 {
			t.Errorf("trial %d: expected 2 circles", r.TrialID)
		}
	}
}
