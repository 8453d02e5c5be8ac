package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/sim"
)

const (
	background  = "#0a0a0a"
	circleColor = "#00ff88"
	rectColor   = "#00ccff"
	borderColor = "#666688"
	trailColor  = "#ff00ff"
)

// FrameToSVG renders a frame in world coordinates. The viewBox covers every
// body and the boundary, so width and height only set the output size.
func FrameToSVG(f *sim.Frame, bd *collision.Boundary, width, height int) string {
	return FrameWithTrailsToSVG(f, bd, nil, width, height)
}

// FrameWithTrailsToSVG is FrameToSVG plus one polyline per trail.
func FrameWithTrailsToSVG(f *sim.Frame, bd *collision.Boundary, trails [][]dynamo.Vec2, width, height int) string {
	if f == nil {
		return ""
	}

	minX, minY, maxX, maxY := bounds(f, bd, trails)
	pad := math.Max(maxX-minX, maxY-minY) * 0.05
	if pad == 0 {
		pad = 1
	}
	minX -= pad
	minY -= pad
	vw := maxX - minX + pad
	vh := maxY - minY + pad
	stroke := math.Max(vw, vh) / 400

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%.2f %.2f %.2f %.2f">
<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, width, height, minX, minY, vw, vh, minX, minY, vw, vh, background))

	if bd != nil {
		dash := ""
		if bd.Mode == collision.Exclude {
			dash = fmt.Sprintf(` stroke-dasharray="%.2f"`, stroke*4)
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"%s/>
`, bd.Center.X, bd.Center.Y, bd.Radius, borderColor, stroke, dash))
	}

	for _, trail := range trails {
		if len(trail) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.2f" d="M`, trailColor, stroke))
		for i, p := range trail {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.2f,%.2f", p.X, p.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.2f,%.2f", p.X, p.Y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(fmt.Sprintf("<g fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\">\n", circleColor, stroke))
	for _, c := range f.Circles {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f"/>
`, c.Position.X, c.Position.Y, c.Radius))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf("<g fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\">\n", rectColor, stroke))
	for _, r := range f.Rects {
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>
`, r.Position.X, r.Position.Y, r.Size.X, r.Size.Y))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func bounds(f *sim.Frame, bd *collision.Boundary, trails [][]dynamo.Vec2) (minX, minY, maxX, maxY float64) {
	lo, hi, ok := f.Bounds()
	if !ok {
		lo = dynamo.Vec2{X: math.Inf(1), Y: math.Inf(1)}
		hi = dynamo.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	}
	minX, minY, maxX, maxY = lo.X, lo.Y, hi.X, hi.Y
	grow := func(a, b dynamo.Vec2) {
		minX, minY = math.Min(minX, a.X), math.Min(minY, a.Y)
		maxX, maxY = math.Max(maxX, b.X), math.Max(maxY, b.Y)
	}

	if bd != nil {
		r := dynamo.Vec2{X: bd.Radius, Y: bd.Radius}
		grow(bd.Center.Sub(r), bd.Center.Add(r))
	}
	for _, trail := range trails {
		for _, p := range trail {
			grow(p, p)
		}
	}

	if math.IsInf(minX, 1) {
		return 0, 0, 1, 1
	}
	return minX, minY, maxX, maxY
}
