package nn

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Eps is added to probabilities before taking their logarithm in
// CrossEntropyError so that a zero probability never reaches math.Log.
const Eps = 1e-7

// Axis selects the slices that Softmax normalizes.
type Axis int

const (
	// AxisBatch reduces over rows: every column sums to 1.
	AxisBatch Axis = iota
	// AxisClass reduces over columns: every row (sample) sums to 1.
	AxisClass
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisBatch:
		return "batch"
	case AxisClass:
		return "class"
	default:
		return "unknown"
	}
}

// Softmax normalizes x column-wise.
//
// The global maximum of x is subtracted from every element before
// exponentiating, so no element larger than exp(0) is ever produced:
//
//	softmax(x)[i,j] = exp(x[i,j] - max(x)) / Σ_i exp(x[i,j] - max(x))
//
// Each column of the result sums to 1. Use SoftmaxAxis with AxisClass for
// per-sample (row-wise) probabilities.
func Softmax(x *mat.Dense) *mat.Dense {
	return SoftmaxAxis(x, AxisBatch)
}

// SoftmaxAxis is Softmax with a selectable reduction axis.
//
// The shift is the global maximum; softmax is invariant to adding the same
// constant to a whole slice. A slice lying so far below the global maximum
// that every exponential underflows to zero is re-shifted by its own maximum.
func SoftmaxAxis(x *mat.Dense, axis Axis) *mat.Dense {
	r, c := x.Dims()
	maxVal := mat.Max(x)

	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		return math.Exp(v - maxVal)
	}, x)

	if axis == AxisClass {
		for i := 0; i < r; i++ {
			row := out.RawRowView(i)
			if floats.Sum(row) == 0 {
				expShifted(row, x.RawRowView(i))
			}
			floats.Scale(1/floats.Sum(row), row)
		}
		return out
	}

	col := make([]float64, r)
	src := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, out)
		if floats.Sum(col) == 0 {
			mat.Col(src, j, x)
			expShifted(col, src)
		}
		floats.Scale(1/floats.Sum(col), col)
		out.SetCol(j, col)
	}
	return out
}

// expShifted writes exp(src - max(src)) into dst.
func expShifted(dst, src []float64) {
	m := floats.Max(src)
	for i, v := range src {
		dst[i] = math.Exp(v - m)
	}
}

// Sigmoid applies the logistic function element-wise.
//
// For negative inputs the algebraically equal form exp(x) / (1 + exp(x)) is
// used so exp never receives a large positive argument.
func Sigmoid(x *mat.Dense) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		return sigmoid(v)
	}, x)
	return out
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}

// CrossEntropyError computes -(t * ln(y + Eps)) element-wise.
//
// The result has the shape of y and is not reduced; see SumRows, Sum and
// Mean for per-sample and scalar losses.
func CrossEntropyError(y, t *mat.Dense) (*mat.Dense, error) {
	yr, yc := y.Dims()
	tr, tc := t.Dims()
	if yr != tr || yc != tc {
		return nil, errors.Wrapf(ErrShapeMismatch, "cross entropy: y is %dx%d, t is %dx%d", yr, yc, tr, tc)
	}

	out := mat.NewDense(yr, yc, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return -(t.At(i, j) * math.Log(v+Eps))
	}, y)
	return out, nil
}

// SumRows returns the sum of every row of m, i.e. the per-sample loss when m
// is an unreduced loss matrix.
func SumRows(m *mat.Dense) *mat.VecDense {
	r, _ := m.Dims()
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, floats.Sum(m.RawRowView(i)))
	}
	return out
}

// SumCols returns the sum of every column of m.
func SumCols(m *mat.Dense) *mat.VecDense {
	r, c := m.Dims()
	out := mat.NewVecDense(c, nil)
	raw := out.RawVector().Data
	for i := 0; i < r; i++ {
		floats.Add(raw, m.RawRowView(i))
	}
	return out
}

// Sum returns the sum of all elements of m.
func Sum(m *mat.Dense) float64 {
	return mat.Sum(m)
}

// Mean returns the mean of all elements of m.
func Mean(m *mat.Dense) float64 {
	r, c := m.Dims()
	return mat.Sum(m) / float64(r*c)
}
