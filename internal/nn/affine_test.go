package nn_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// numericalGradient estimates ∂f/∂v by central differences, where set
// writes a value into the perturbed element.
func numericalGradient(f func() float64, get func() float64, set func(float64), h float64) float64 {
	orig := get()
	set(orig + h)
	fp := f()
	set(orig - h)
	fm := f()
	set(orig)
	return (fp - fm) / (2 * h)
}

func newAffine(t *testing.T, rng *rand.Rand, in, out int) *nn.Affine {
	t.Helper()
	w := randDense(rng, in, out, 1)
	b := mat.NewVecDense(out, nil)
	for i := 0; i < out; i++ {
		b.SetVec(i, rng.Float64())
	}
	layer, err := nn.NewAffine(w, b)
	require.NoError(t, err)
	return layer
}

func TestAffine_Forward(t *testing.T) {
	w := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	b := mat.NewVecDense(3, []float64{0.5, -1, 2})
	layer, err := nn.NewAffine(w, b)
	require.NoError(t, err)

	x := mat.NewDense(2, 2, []float64{
		1, 0,
		1, 1,
	})
	y, err := layer.Forward(x)
	require.NoError(t, err)

	expected := mat.NewDense(2, 3, []float64{
		1.5, 1, 5,
		5.5, 6, 11,
	})
	assert.True(t, mat.Equal(expected, y), "got %v", mat.Formatted(y))
}

func TestAffine_CopiesParameters(t *testing.T) {
	w := mat.NewDense(1, 1, []float64{2})
	b := mat.NewVecDense(1, []float64{1})
	layer, err := nn.NewAffine(w, b)
	require.NoError(t, err)

	w.Set(0, 0, 100)
	b.SetVec(0, 100)

	y, err := layer.Forward(mat.NewDense(1, 1, []float64{3}))
	require.NoError(t, err)
	assert.Equal(t, 7.0, y.At(0, 0))
}

func TestAffine_Shapes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n, k, m = 5, 4, 3
	layer := newAffine(t, rng, k, m)

	assert.Equal(t, k, layer.InFeatures())
	assert.Equal(t, m, layer.OutFeatures())
	assert.Nil(t, layer.DW())
	assert.Nil(t, layer.DB())

	y, err := layer.Forward(randDense(rng, n, k, 1))
	require.NoError(t, err)
	r, c := y.Dims()
	assert.Equal(t, n, r)
	assert.Equal(t, m, c)

	dx, err := layer.Backward(randDense(rng, n, m, 1))
	require.NoError(t, err)
	r, c = dx.Dims()
	assert.Equal(t, n, r)
	assert.Equal(t, k, c)

	r, c = layer.DW().Dims()
	assert.Equal(t, k, r)
	assert.Equal(t, m, c)
	assert.Equal(t, m, layer.DB().Len())

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, []int{k, m}, params[0].Shape())
	assert.Len(t, params[0].Grad(), k*m)
	assert.Equal(t, []int{m}, params[1].Shape())
	assert.Len(t, params[1].Grad(), m)
}

func TestAffine_GradientCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const n, k, m = 3, 4, 2
	const h, tol = 1e-5, 1e-4

	layer := newAffine(t, rng, k, m)
	x := randDense(rng, n, k, 1)
	// f(out) = Σ out ⊙ g, so ∂f/∂out = g.
	g := randDense(rng, n, m, 1)

	f := func() float64 {
		y, err := layer.Forward(x)
		require.NoError(t, err)
		var prod mat.Dense
		prod.MulElem(y, g)
		return mat.Sum(&prod)
	}

	f()
	dx, err := layer.Backward(g)
	require.NoError(t, err)
	dW := mat.DenseCopyOf(layer.DW())
	db := mat.VecDenseCopyOf(layer.DB())

	w := layer.Weight()
	for i := 0; i < k; i++ {
		for j := 0; j < m; j++ {
			num := numericalGradient(f,
				func() float64 { return w.At(i, j) },
				func(v float64) { w.Set(i, j, v) }, h)
			assert.InDelta(t, num, dW.At(i, j), tol, "dW[%d,%d]", i, j)
		}
	}

	b := layer.Bias()
	for j := 0; j < m; j++ {
		num := numericalGradient(f,
			func() float64 { return b.AtVec(j) },
			func(v float64) { b.SetVec(j, v) }, h)
		assert.InDelta(t, num, db.AtVec(j), tol, "db[%d]", j)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			num := numericalGradient(f,
				func() float64 { return x.At(i, j) },
				func(v float64) { x.Set(i, j, v) }, h)
			assert.InDelta(t, num, dx.At(i, j), tol, "dx[%d,%d]", i, j)
		}
	}
}

func TestAffine_BackwardBeforeForward(t *testing.T) {
	layer := newAffine(t, rand.New(rand.NewSource(1)), 2, 2)

	_, err := layer.Backward(mat.NewDense(1, 2, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, nn.ErrNotReady)

	var layerErr *nn.LayerError
	require.ErrorAs(t, err, &layerErr)
	assert.Equal(t, "Affine", layerErr.Layer)
	assert.Equal(t, nn.PhaseBackward, layerErr.Phase)
}

func TestAffine_ShapeMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	layer := newAffine(t, rng, 3, 2)

	_, err := layer.Forward(randDense(rng, 4, 2, 1))
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)

	// A rejected forward must not fill the cache.
	_, err = layer.Backward(randDense(rng, 4, 2, 1))
	assert.ErrorIs(t, err, nn.ErrNotReady)

	_, err = layer.Forward(randDense(rng, 4, 3, 1))
	require.NoError(t, err)

	_, err = layer.Backward(randDense(rng, 4, 3, 1))
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
	_, err = layer.Backward(randDense(rng, 5, 2, 1))
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
}

func TestAffine_ForwardOverwritesCache(t *testing.T) {
	w := mat.NewDense(1, 1, []float64{1})
	b := mat.NewVecDense(1, []float64{0})
	layer, err := nn.NewAffine(w, b)
	require.NoError(t, err)

	_, err = layer.Forward(mat.NewDense(1, 1, []float64{2}))
	require.NoError(t, err)
	_, err = layer.Forward(mat.NewDense(2, 1, []float64{3, 4}))
	require.NoError(t, err)

	_, err = layer.Backward(mat.NewDense(2, 1, []float64{1, 1}))
	require.NoError(t, err)
	assert.Equal(t, 7.0, layer.DW().At(0, 0))
	assert.Equal(t, 2.0, layer.DB().AtVec(0))
}

func TestNewAffine_BiasMismatch(t *testing.T) {
	_, err := nn.NewAffine(mat.NewDense(2, 3, nil), mat.NewVecDense(2, nil))
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)

	_, err = nn.NewAffine(nil, mat.NewVecDense(2, nil))
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
}

func TestNewAffineInit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for name, init := range map[string]nn.Initializer{
		"xavier": nn.Xavier,
		"he":     nn.He,
		"normal": nn.Normal(0.01),
	} {
		layer := nn.NewAffineInit(6, 4, init, rng)
		assert.Equal(t, 6, layer.InFeatures(), name)
		assert.Equal(t, 4, layer.OutFeatures(), name)
		assert.Equal(t, 0.0, mat.Sum(layer.Bias()), name)
		assert.NotEqual(t, 0.0, mat.Norm(layer.Weight(), 2), name)
	}
}
