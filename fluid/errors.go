package fluid

import (
	"errors"
	"fmt"

	"github.com/notargets/realgas/eos"
)

var (
	ErrClosed = errors.New("fluid: model is closed")
	// ErrOutOfRange marks inputs or results a model cannot represent as a
	// single phase state, other than the pressure and temperature checks
	ErrOutOfRange = errors.New("fluid: state outside the model range")
)

// ConstructionError reports a fluid the backend could not instantiate
type ConstructionError struct {
	Backend, Fluid string
	Err            error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("fluid: unable to construct %s with backend %s: %v", e.Fluid, e.Backend, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// PhysicalRangeError reports a pressure or temperature that is not admissible.
// Zero Min or Max means that bound was not known.
type PhysicalRangeError struct {
	Quantity string
	Value    float64
	Min, Max float64
}

func (e *PhysicalRangeError) Error() string {
	switch {
	case e.Max > 0:
		return fmt.Sprintf("fluid: %s %g outside [%g, %g]", e.Quantity, e.Value, e.Min, e.Max)
	case e.Min > 0:
		return fmt.Sprintf("fluid: %s %g below %g", e.Quantity, e.Value, e.Min)
	}
	return fmt.Sprintf("fluid: %s %g is not positive and finite", e.Quantity, e.Value)
}

// BackendQueryFailure wraps an error from the equation of state, tagged with
// the input pair that was being evaluated.
type BackendQueryFailure struct {
	Input          eos.InputPair
	Value1, Value2 float64
	Err            error
}

func (e *BackendQueryFailure) Error() string {
	return fmt.Sprintf("fluid: backend query %s(%g, %g) failed: %v", e.Input, e.Value1, e.Value2, e.Err)
}

func (e *BackendQueryFailure) Unwrap() error { return e.Err }
