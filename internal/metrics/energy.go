package metrics

import (
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/sim"
)

// TotalKineticEnergy sums 0.5*m*|v|^2 over every body in the frame.
func TotalKineticEnergy(f *sim.Frame) float64 {
	total := 0.0
	for i := range f.Circles {
		total += f.Circles[i].KineticEnergy()
	}
	for i := range f.Rects {
		total += f.Rects[i].KineticEnergy()
	}
	return total
}

// Momentum sums m*v over every body in the frame.
func Momentum(f *sim.Frame) dynamo.Vec2 {
	var p dynamo.Vec2
	for i := range f.Circles {
		p = p.Add(f.Circles[i].Velocity.Scale(f.Circles[i].Mass))
	}
	for i := range f.Rects {
		p = p.Add(f.Rects[i].Velocity.Scale(f.Rects[i].Mass))
	}
	return p
}

type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *sim.Frame) {
	e.totalEnergy += TotalKineticEnergy(f)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// PeakEnergy tracks the largest total kinetic energy seen. Penalty
// resolution injects energy, so a growing peak flags a scene that is
// pumping bodies apart.
type PeakEnergy struct {
	name string
	peak float64
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (p *PeakEnergy) Name() string { return p.name }

func (p *PeakEnergy) Observe(f *sim.Frame) {
	if e := TotalKineticEnergy(f); e > p.peak {
		p.peak = e
	}
}

func (p *PeakEnergy) Value() float64 { return p.peak }

func (p *PeakEnergy) Reset() { p.peak = 0 }
