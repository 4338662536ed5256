package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Affine implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output with shape [batch_size, out_features]
//
// Forward caches x; Backward uses it to compute dW and db, which stay
// readable through DW, DB and Parameters until the next Backward call.
// Parameters are never updated here; that is the optimizer's job.
//
// Example:
//
//	layer, err := nn.NewAffine(w, b)
//	out, err := layer.Forward(x)       // [batch, out]
//	dx, err := layer.Backward(dout)    // [batch, in]
//	dW, db := layer.DW(), layer.DB()
type Affine struct {
	w *mat.Dense    // [in_features, out_features]
	b *mat.VecDense // [out_features]

	weight *Parameter
	bias   *Parameter

	cache *affineCache // nil until the first Forward

	dW *mat.Dense
	dB *mat.VecDense
}

type affineCache struct {
	x *mat.Dense
}

// NewAffine creates an Affine layer from initial parameters.
//
// The parameters are copied, so later changes to w and b do not affect the
// layer. Returns ErrShapeMismatch if len(b) differs from the column count of w.
func NewAffine(w *mat.Dense, b *mat.VecDense) (*Affine, error) {
	if w == nil || w.IsEmpty() || b == nil || b.IsEmpty() {
		return nil, shapeError("Affine", PhaseBuild, "weight and bias must be non-empty")
	}
	in, out := w.Dims()
	if b.Len() != out {
		return nil, shapeError("Affine", PhaseBuild, "bias length %d, weight is %dx%d", b.Len(), in, out)
	}

	wc := mat.DenseCopyOf(w)
	bc := mat.VecDenseCopyOf(b)

	return &Affine{
		w:      wc,
		b:      bc,
		weight: NewParameter("weight", wc.RawMatrix().Data, in, out),
		bias:   NewParameter("bias", bc.RawVector().Data, out),
	}, nil
}

// NewAffineInit creates an in x out Affine layer with weights from init and
// zero biases.
func NewAffineInit(in, out int, init Initializer, rng *rand.Rand) *Affine {
	w := init(in, out, rng)
	b := Zeros(out)
	return &Affine{
		w:      w,
		b:      b,
		weight: NewParameter("weight", w.RawMatrix().Data, in, out),
		bias:   NewParameter("bias", b.RawVector().Data, out),
	}
}

// Forward computes x @ W + b, broadcasting b across rows.
//
// Returns ErrShapeMismatch, leaving the cached input untouched, when the
// column count of x differs from the row count of W.
func (a *Affine) Forward(x *mat.Dense) (*mat.Dense, error) {
	if x == nil || x.IsEmpty() {
		return nil, shapeError("Affine", PhaseForward, "empty input")
	}
	in, out := a.w.Dims()
	rows, cols := x.Dims()
	if cols != in {
		return nil, shapeError("Affine", PhaseForward, "input has %d features, weight expects %d", cols, in)
	}

	a.cache = &affineCache{x: x}

	y := mat.NewDense(rows, out, nil)
	y.Mul(x, a.w)
	bias := a.b.RawVector().Data
	for i := 0; i < rows; i++ {
		floats.Add(y.RawRowView(i), bias)
	}
	return y, nil
}

// Backward computes the input gradient and stores the parameter gradients.
//
//	dx = dout @ W.T
//	dW = x.T @ dout
//	db = column-sum(dout)
//
// Returns ErrNotReady before the first Forward, and ErrShapeMismatch when
// dout is not shaped like the last forward output.
func (a *Affine) Backward(dout *mat.Dense) (*mat.Dense, error) {
	if a.cache == nil {
		return nil, notReadyError("Affine")
	}
	if dout == nil || dout.IsEmpty() {
		return nil, shapeError("Affine", PhaseBackward, "empty gradient")
	}
	x := a.cache.x
	in, out := a.w.Dims()
	rows, _ := x.Dims()
	dr, dc := dout.Dims()
	if dr != rows || dc != out {
		return nil, shapeError("Affine", PhaseBackward, "gradient is %dx%d, output was %dx%d", dr, dc, rows, out)
	}

	dx := mat.NewDense(rows, in, nil)
	dx.Mul(dout, a.w.T())

	dW := mat.NewDense(in, out, nil)
	dW.Mul(x.T(), dout)

	dB := SumCols(dout)

	a.dW, a.dB = dW, dB
	a.weight.SetGrad(dW.RawMatrix().Data)
	a.bias.SetGrad(dB.RawVector().Data)

	return dx, nil
}

// DW returns the weight gradient from the last Backward, or nil.
func (a *Affine) DW() *mat.Dense {
	return a.dW
}

// DB returns the bias gradient from the last Backward, or nil.
func (a *Affine) DB() *mat.VecDense {
	return a.dB
}

// Weight returns the weight matrix. It aliases the layer's storage.
func (a *Affine) Weight() *mat.Dense {
	return a.w
}

// Bias returns the bias vector. It aliases the layer's storage.
func (a *Affine) Bias() *mat.VecDense {
	return a.b
}

// InFeatures returns the number of input features.
func (a *Affine) InFeatures() int {
	in, _ := a.w.Dims()
	return in
}

// OutFeatures returns the number of output features.
func (a *Affine) OutFeatures() int {
	_, out := a.w.Dims()
	return out
}

// Parameters returns [weight, bias].
func (a *Affine) Parameters() []*Parameter {
	return []*Parameter{a.weight, a.bias}
}
