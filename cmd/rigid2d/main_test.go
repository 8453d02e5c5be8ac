package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/spf13/cobra"
)

func newSceneCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	sceneFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestResolveScenePreset(t *testing.T) {
	cmd := newSceneCmd(t, "--preset", "pair")
	cfg, err := resolveScene(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "pair" || cfg.Ticks != config.Presets["pair"].Ticks {
		t.Errorf("unexpected scene %+v", cfg)
	}
}

func TestResolveSceneFlagsOverride(t *testing.T) {
	cmd := newSceneCmd(t, "--preset", "falling", "--ticks", "7", "--gravity", "0.3", "--integrator", "euler")
	cfg, err := resolveScene(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ticks != 7 || cfg.Gravity != 0.3 || cfg.Integrator != "euler" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Dt != 1 {
		t.Errorf("unchanged flag should keep scene dt, got %v", cfg.Dt)
	}
}

func TestResolveSceneConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte("name: file\ngravity: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newSceneCmd(t, "--config", path)
	cfg, err := resolveScene(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "file" || cfg.Gravity != 0.5 {
		t.Errorf("config file not applied: %+v", cfg)
	}
}

func TestResolveSceneUnknownPreset(t *testing.T) {
	cmd := newSceneCmd(t, "--preset", "nope")
	if _, err := resolveScene(cmd); err == nil {
		t.Error("expected unknown preset error")
	}
}
