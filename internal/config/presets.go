package config

import "sort"

func circle(x, y, r, m float64) CircleConfig {
	return CircleConfig{BodyConfig: BodyConfig{Position: Vec{x, y}, Mass: m}, Radius: r}
}

func withVelocity(c CircleConfig, vx, vy float64) CircleConfig {
	c.Velocity = Vec{vx, vy}
	return c
}

var screenBoundary = BoundaryConfig{Center: Vec{500, 500}, Radius: 500}

var Presets = map[string]*Config{
	"drift": {
		Name: "drift", Integrator: DefaultIntegrator, Dt: 1, Ticks: 600, FPS: 60, Sample: 1,
		Circles: []CircleConfig{withVelocity(circle(1000, 1000, 100, 1), 1, 0)},
	},
	"falling": {
		Name: "falling", Integrator: DefaultIntegrator, Gravity: 0.1, Dt: 1, Ticks: 600, FPS: 60, Sample: 1,
		Boundary: &screenBoundary,
		Circles: []CircleConfig{{
			BodyConfig: BodyConfig{Position: Vec{500, 900}, Force: Vec{1000, 0}, Mass: 1},
			Radius:     100,
		}},
	},
	"pair": {
		Name: "pair", Integrator: DefaultIntegrator, Dt: 1, Ticks: 600, FPS: 60, Sample: 1,
		Boundary: &screenBoundary,
		Circles: []CircleConfig{
			withVelocity(circle(250, 500, 80, 1), 3, 0),
			withVelocity(circle(750, 520, 80, 2), -3, 0),
		},
	},
	"stack": {
		Name: "stack", Integrator: DefaultIntegrator, Gravity: 0.1, Dt: 1, Ticks: 1200, FPS: 60, Sample: 5,
		Boundary: &screenBoundary,
		Circles: []CircleConfig{
			circle(380, 300, 60, 1),
			circle(500, 280, 60, 1),
			circle(620, 300, 60, 1),
			circle(440, 160, 60, 2),
			circle(560, 170, 60, 2),
			circle(500, 40+60, 40, 0.5),
		},
	},
	"boxes": {
		Name: "boxes", Integrator: DefaultIntegrator, Dt: 1, Ticks: 300, FPS: 60, Sample: 1,
		Rects: []RectConfig{
			{BodyConfig: BodyConfig{Position: Vec{100, 400}, Velocity: Vec{3, 0}, Mass: 1}, Size: Vec{200, 100}},
			{BodyConfig: BodyConfig{Position: Vec{700, 420}, Velocity: Vec{-3, 0}, Mass: 1}, Size: Vec{150, 150}},
			{BodyConfig: BodyConfig{Position: Vec{420, 100}, Velocity: Vec{0, 2}, Mass: 2}, Size: Vec{120, 80}},
		},
	},
	"outside": {
		Name: "outside", Integrator: DefaultIntegrator, Dt: 1, Ticks: 600, FPS: 60, Sample: 1,
		Boundary: &BoundaryConfig{Center: Vec{500, 500}, Radius: 200, Mode: "exclude"},
		Circles: []CircleConfig{
			withVelocity(circle(100, 500, 50, 1), 4, 0),
			withVelocity(circle(900, 480, 50, 1), -4, 0),
			withVelocity(circle(520, 100, 50, 2), 0, 3),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
