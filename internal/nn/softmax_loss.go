package nn

import (
	"gonum.org/v1/gonum/mat"
)

// SoftmaxWithLoss fuses the softmax activation with cross-entropy loss.
//
// Mathematical Formulation:
//
//	y    = softmax(x)
//	loss = -(t * ln(y + Eps))       (element-wise, unreduced)
//
// Gradient (Backward):
//
//	∂L/∂x = (y - t) / batch_size
//
// Differentiating the composition directly yields this form, so no softmax
// Jacobian is ever built. The division by batch size matches a mean over the
// batch and is fixed.
//
// The layer is always the last node of a graph: Backward takes no upstream
// gradient.
type SoftmaxWithLoss struct {
	axis  Axis
	cache *lossCache // nil until the first Forward
}

type lossCache struct {
	y    *mat.Dense
	t    *mat.Dense
	loss *mat.Dense
}

// LossOption configures a SoftmaxWithLoss.
type LossOption func(*SoftmaxWithLoss)

// WithSoftmaxAxis selects the softmax reduction axis. The default is
// AxisBatch, which matches Softmax; classifiers with one sample per row
// normally want AxisClass.
func WithSoftmaxAxis(axis Axis) LossOption {
	return func(l *SoftmaxWithLoss) {
		l.axis = axis
	}
}

// NewSoftmaxWithLoss creates a fresh loss layer.
func NewSoftmaxWithLoss(opts ...LossOption) *SoftmaxWithLoss {
	l := &SoftmaxWithLoss{axis: AxisBatch}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Forward computes softmax(x) and its cross-entropy against the targets t.
//
// Parameters:
//   - x: Scores with shape [batch_size, num_classes]
//   - t: Target distributions (one-hot or soft) with the same shape
//
// Returns the unreduced loss with shape [batch_size, num_classes]. Reduce it
// with SumRows, Sum or Mean as needed.
//
// Returns ErrShapeMismatch when the shapes differ or the batch is empty, and
// ErrNumericDomain when x or t holds NaN or Inf. Cached state is left
// untouched on error.
func (l *SoftmaxWithLoss) Forward(x, t *mat.Dense) (*mat.Dense, error) {
	if x == nil || x.IsEmpty() || t == nil || t.IsEmpty() {
		return nil, shapeError("SoftmaxWithLoss", PhaseForward, "empty scores or targets")
	}
	xr, xc := x.Dims()
	tr, tc := t.Dims()
	if xr != tr || xc != tc {
		return nil, shapeError("SoftmaxWithLoss", PhaseForward, "scores are %dx%d, targets are %dx%d", xr, xc, tr, tc)
	}

	for _, m := range []*mat.Dense{x, t} {
		if err := CheckFinite(m); err != nil {
			return nil, &LayerError{Layer: "SoftmaxWithLoss", Phase: PhaseForward, Err: err}
		}
	}

	y := SoftmaxAxis(x, l.axis)
	loss, err := CrossEntropyError(y, t)
	if err != nil {
		return nil, &LayerError{Layer: "SoftmaxWithLoss", Phase: PhaseForward, Err: err}
	}

	l.cache = &lossCache{y: y, t: t, loss: loss}
	return loss, nil
}

// Backward returns (y - t) / batch_size for the last Forward call.
//
// Returns ErrNotReady before the first Forward.
func (l *SoftmaxWithLoss) Backward() (*mat.Dense, error) {
	if l.cache == nil {
		return nil, notReadyError("SoftmaxWithLoss")
	}
	rows, _ := l.cache.t.Dims()
	batchSize := float64(rows)

	var dx mat.Dense
	dx.Sub(l.cache.y, l.cache.t)
	dx.Apply(func(_, _ int, v float64) float64 {
		return v / batchSize
	}, &dx)
	return &dx, nil
}

// Loss returns the unreduced loss of the last Forward, or nil.
func (l *SoftmaxWithLoss) Loss() *mat.Dense {
	if l.cache == nil {
		return nil
	}
	return l.cache.loss
}

// SampleLoss returns the loss of every sample (row sums of Loss), or nil.
func (l *SoftmaxWithLoss) SampleLoss() *mat.VecDense {
	if l.cache == nil {
		return nil
	}
	return SumRows(l.cache.loss)
}

// Output returns the softmax output of the last Forward, or nil.
func (l *SoftmaxWithLoss) Output() *mat.Dense {
	if l.cache == nil {
		return nil
	}
	return l.cache.y
}

// Axis returns the softmax reduction axis.
func (l *SoftmaxWithLoss) Axis() Axis {
	return l.axis
}
