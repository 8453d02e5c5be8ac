package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != DefaultIntegrator {
		t.Errorf("expected integrator %s, got %s", DefaultIntegrator, cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Ticks <= 0 {
		t.Error("ticks should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("falling")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Gravity != 0.1 {
		t.Errorf("expected gravity 0.1, got %f", cfg.Gravity)
	}
	if len(cfg.Circles) != 1 || cfg.Circles[0].Force != (Vec{1000, 0}) {
		t.Errorf("unexpected circles: %+v", cfg.Circles)
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	cfg := GetPreset("pair")
	cfg.Circles[0].Mass = 99
	cfg.Boundary.Radius = 1

	again := GetPreset("pair")
	if again.Circles[0].Mass == 99 || again.Boundary.Radius == 1 {
		t.Error("preset was mutated through a returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if err := GetPreset(name).Validate(); err != nil {
				t.Errorf("preset %s invalid: %v", name, err)
			}
		})
	}
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrParameterBounds},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }, dynamo.ErrParameterBounds},
		{"zero mass", func(c *Config) { c.Circles = []CircleConfig{circle(0, 0, 1, 0)} }, dynamo.ErrInvalidMass},
		{"negative radius", func(c *Config) { c.Circles = []CircleConfig{circle(0, 0, -1, 1)} }, dynamo.ErrInvalidExtent},
		{"negative size", func(c *Config) {
			c.Rects = []RectConfig{{BodyConfig: BodyConfig{Mass: 1}, Size: Vec{-1, 1}}}
		}, dynamo.ErrInvalidExtent},
		{"bad boundary", func(c *Config) { c.Boundary = &BoundaryConfig{Radius: -5} }, dynamo.ErrParameterBounds},
		{"bad mode", func(c *Config) { c.Boundary = &BoundaryConfig{Radius: 5, Mode: "sideways"} }, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := Save(path, GetPreset("outside")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	bd, err := cfg.WorldBoundary()
	if err != nil {
		t.Fatalf("boundary: %v", err)
	}
	if bd.Mode != collision.Exclude || bd.Radius != 200 {
		t.Errorf("unexpected boundary %+v", bd)
	}
	if len(cfg.Circles) != 3 || cfg.Circles[2].Mass != 2 {
		t.Errorf("unexpected circles %+v", cfg.Circles)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("gravity: 0.2\ncircles:\n  - position: [1, 2]\n    radius: 3\n    mass: 4\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != DefaultDt || cfg.Ticks != DefaultTicks || cfg.Integrator != DefaultIntegrator {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	bodies := cfg.CircleBodies()
	if len(bodies) != 1 || bodies[0].Position != (dynamo.Vec2{X: 1, Y: 2}) || bodies[0].Radius != 3 {
		t.Errorf("unexpected bodies %+v", bodies)
	}
}

func TestSimConfig(t *testing.T) {
	cfg := GetPreset("falling")
	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Gravity != 0.1 || sc.Dt != 1 || sc.Boundary == nil || sc.Boundary.Center != (dynamo.Vec2{X: 500, Y: 500}) {
		t.Errorf("unexpected sim config %+v", sc)
	}
}
