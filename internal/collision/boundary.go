package collision

import (
	"fmt"
	"strings"

	"github.com/san-kum/rigid2d/internal/dynamo"
)

// BoundaryMode selects which side of the boundary circle bodies are kept on.
type BoundaryMode int

const (
	// Contain keeps bodies inside the circle.
	Contain BoundaryMode = iota
	// Exclude keeps bodies outside the circle (the inverted pushback sign).
	Exclude
)

func (m BoundaryMode) String() string {
	switch m {
	case Exclude:
		return "exclude"
	default:
		return "contain"
	}
}

func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "contain", "inside":
		return Contain, nil
	case "exclude", "outside":
		return Exclude, nil
	default:
		return Contain, fmt.Errorf("%w: unknown boundary mode %q", dynamo.ErrParameterBounds, s)
	}
}

// Boundary is a fixed circular region.
type Boundary struct {
	Center dynamo.Vec2
	Radius float64
	Mode   BoundaryMode
}

// Fits reports whether a circle of radius r can rest without overlapping
// the boundary. Exclude boundaries accept any radius.
func (b Boundary) Fits(r float64) bool {
	if b.Mode == Exclude {
		return true
	}
	return r <= b.Radius
}
