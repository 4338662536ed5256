package nn

import (
	"gonum.org/v1/gonum/mat"
)

// ReLU is a Rectified Linear Unit activation layer.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// Forward remembers which inputs were positive; Backward lets the gradient
// through only at those positions.
type ReLU struct {
	mask *mat.Dense // 1 where x > 0, else 0; nil until the first Forward
}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(x *mat.Dense) (*mat.Dense, error) {
	if x == nil || x.IsEmpty() {
		return nil, shapeError("ReLU", PhaseForward, "empty input")
	}
	rows, cols := x.Dims()
	mask := mat.NewDense(rows, cols, nil)
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := x.At(i, j); v > 0 {
				mask.Set(i, j, 1)
				out.Set(i, j, v)
			}
		}
	}
	r.mask = mask
	return out, nil
}

// Backward zeroes dout wherever the forward input was not positive.
func (r *ReLU) Backward(dout *mat.Dense) (*mat.Dense, error) {
	if r.mask == nil {
		return nil, notReadyError("ReLU")
	}
	if err := sameShape("ReLU", dout, r.mask); err != nil {
		return nil, err
	}
	var dx mat.Dense
	dx.MulElem(dout, r.mask)
	return &dx, nil
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// SigmoidLayer applies Sigmoid element-wise.
//
// For σ(x) = 1 / (1 + exp(-x)):
// dσ/dx = σ(x) * (1 - σ(x))
//
// so Forward caches its output and Backward reuses it.
type SigmoidLayer struct {
	out *mat.Dense // nil until the first Forward
}

// NewSigmoidLayer creates a new sigmoid activation layer.
func NewSigmoidLayer() *SigmoidLayer {
	return &SigmoidLayer{}
}

// Forward returns Sigmoid(x).
func (s *SigmoidLayer) Forward(x *mat.Dense) (*mat.Dense, error) {
	if x == nil || x.IsEmpty() {
		return nil, shapeError("Sigmoid", PhaseForward, "empty input")
	}
	s.out = Sigmoid(x)
	return s.out, nil
}

// Backward returns dout * y * (1 - y).
func (s *SigmoidLayer) Backward(dout *mat.Dense) (*mat.Dense, error) {
	if s.out == nil {
		return nil, notReadyError("Sigmoid")
	}
	if err := sameShape("Sigmoid", dout, s.out); err != nil {
		return nil, err
	}
	var dx mat.Dense
	dx.Apply(func(i, j int, y float64) float64 {
		return dout.At(i, j) * y * (1 - y)
	}, s.out)
	return &dx, nil
}

// Parameters returns nil (sigmoid has no trainable parameters).
func (s *SigmoidLayer) Parameters() []*Parameter {
	return nil
}

func sameShape(layer string, dout, cached *mat.Dense) error {
	if dout == nil || dout.IsEmpty() {
		return shapeError(layer, PhaseBackward, "empty gradient")
	}
	dr, dc := dout.Dims()
	cr, cc := cached.Dims()
	if dr != cr || dc != cc {
		return shapeError(layer, PhaseBackward, "gradient is %dx%d, output was %dx%d", dr, dc, cr, cc)
	}
	return nil
}
