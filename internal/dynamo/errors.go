package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for body creation and simulation runs.
var (
	// ErrInvalidMass indicates a zero, negative or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: invalid mass (must be positive)")

	// ErrInvalidExtent indicates a negative radius, width or height.
	ErrInvalidExtent = errors.New("dynamo: invalid shape extent (must be non-negative)")

	// ErrDoesNotFit indicates a circle larger than the containing boundary.
	ErrDoesNotFit = errors.New("dynamo: body does not fit inside boundary")

	// ErrInvalidState indicates a body with NaN or Inf position, velocity or force.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// SimulationError wraps an error with the tick it was detected on.
type SimulationError struct {
	Tick    uint64
	Body    string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
	}
	return fmt.Sprintf("tick %d (%s): %v", e.Tick, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
