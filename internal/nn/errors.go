package nn

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Layer errors. Every error returned by a layer wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	// ErrShapeMismatch reports operands whose dimensions are incompatible.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNotReady reports a Backward call on a layer with no prior Forward.
	ErrNotReady = errors.New("backward called before forward")

	// ErrNumericDomain reports NaN or Inf values in a matrix.
	ErrNumericDomain = errors.New("value outside numeric domain")
)

// Phases reported in LayerError.
const (
	PhaseForward  = "forward"
	PhaseBackward = "backward"
	PhaseBuild    = "build"
)

// LayerError attaches the failing layer and phase to one of the sentinel errors.
type LayerError struct {
	Layer string // Layer kind, e.g. "Affine"
	Phase string // PhaseForward, PhaseBackward or PhaseBuild
	Err   error  // Wrapped sentinel with details
}

// Error implements the error interface.
func (e *LayerError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Layer, e.Phase, e.Err)
}

// Unwrap exposes the wrapped sentinel to errors.Is.
func (e *LayerError) Unwrap() error {
	return e.Err
}

func shapeError(layer, phase, format string, args ...any) error {
	return &LayerError{
		Layer: layer,
		Phase: phase,
		Err:   errors.Wrapf(ErrShapeMismatch, format, args...),
	}
}

func notReadyError(layer string) error {
	return &LayerError{
		Layer: layer,
		Phase: PhaseBackward,
		Err:   errors.WithStack(ErrNotReady),
	}
}

// CheckFinite returns ErrNumericDomain if m holds a NaN or an infinity.
func CheckFinite(m *mat.Dense) error {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrNumericDomain, "element (%d, %d) is %v", i, j, v)
			}
		}
	}
	return nil
}
