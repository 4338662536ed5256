package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrMissingTensor      = errors.New("tensor not found")
	ErrInvalidTensor      = errors.New("invalid tensor entry")
)

// TensorError reports a problem with a single tensor entry.
type TensorError struct {
	Tensor  string // Tensor name
	Details string // What is wrong with it
	Err     error  // Sentinel, usually ErrInvalidTensor
}

// Error implements the error interface.
func (e *TensorError) Error() string {
	return fmt.Sprintf("tensor %q: %s: %v", e.Tensor, e.Details, e.Err)
}

// Unwrap returns the sentinel so errors.Is works.
func (e *TensorError) Unwrap() error {
	return e.Err
}

func invalidTensor(name, format string, args ...any) error {
	return errors.WithStack(&TensorError{
		Tensor:  name,
		Details: fmt.Sprintf(format, args...),
		Err:     ErrInvalidTensor,
	})
}
