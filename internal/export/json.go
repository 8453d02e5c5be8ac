package export

import (
	"encoding/json"
	"os"

	"github.com/san-kum/rigid2d/internal/sim"
)

type Info struct {
	Scene      string  `json:"scene"`
	Integrator string  `json:"integrator"`
	Gravity    float64 `json:"gravity"`
	Dt         float64 `json:"dt"`
}

type BodyData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type FrameData struct {
	Tick     uint64     `json:"tick"`
	Circles  []BodyData `json:"circles"`
	Rects    []BodyData `json:"rects"`
	Contacts int        `json:"contacts"`
}

type ExportData struct {
	Info
	Ticks   uint64             `json:"ticks"`
	Frames  []FrameData        `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
	Errors  []string           `json:"errors,omitempty"`
}

func NewExportData(info Info, result *sim.Result) ExportData {
	data := ExportData{
		Info:    info,
		Ticks:   result.TicksTaken,
		Frames:  make([]FrameData, len(result.Frames)),
		Metrics: result.Metrics,
	}

	for i, f := range result.Frames {
		fd := FrameData{
			Tick:     f.Tick,
			Circles:  make([]BodyData, len(f.Circles)),
			Rects:    make([]BodyData, len(f.Rects)),
			Contacts: f.Stats.Contacts(),
		}
		for j, c := range f.Circles {
			fd.Circles[j] = BodyData{
				X: c.Position.X, Y: c.Position.Y,
				VX: c.Velocity.X, VY: c.Velocity.Y,
				Mass: c.Mass, Radius: c.Radius,
			}
		}
		for j, r := range f.Rects {
			fd.Rects[j] = BodyData{
				X: r.Position.X, Y: r.Position.Y,
				VX: r.Velocity.X, VY: r.Velocity.Y,
				Mass: r.Mass, Width: r.Size.X, Height: r.Size.Y,
			}
		}
		data.Frames[i] = fd
	}
	for _, err := range result.Errors {
		data.Errors = append(data.Errors, err.Error())
	}
	return data
}

func ExportJSON(path string, info Info, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}
