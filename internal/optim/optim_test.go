package optim_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/optim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func param(value, grad float64) *nn.Parameter {
	p := nn.NewParameter("x", []float64{value}, 1)
	p.SetGrad([]float64{grad})
	return p
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	p := param(2.0, 1.0)
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.1})

	require.NoError(t, optimizer.Step())

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	assert.InDelta(t, 1.9, p.Value()[0], 1e-12)
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	p := param(1.0, 1.0)
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Step 1: v = 1, x = 1 - 0.1*1 = 0.9
	require.NoError(t, optimizer.Step())
	assert.InDelta(t, 0.9, p.Value()[0], 1e-12)

	// Step 2: v = 0.9*1 + 1 = 1.9, x = 0.9 - 0.19 = 0.71
	require.NoError(t, optimizer.Step())
	assert.InDelta(t, 0.71, p.Value()[0], 1e-12)
}

func TestSGD_Defaults(t *testing.T) {
	optimizer := optim.NewSGD(nil, optim.SGDConfig{})
	assert.Equal(t, 0.01, optimizer.LR())

	optimizer.SetLR(0.5)
	assert.Equal(t, 0.5, optimizer.LR())
}

func TestSGD_SkipsParametersWithoutGradient(t *testing.T) {
	p := nn.NewParameter("x", []float64{3}, 1)
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 1})

	require.NoError(t, optimizer.Step())
	assert.Equal(t, 3.0, p.Value()[0])
}

func TestSGD_GradientLengthMismatch(t *testing.T) {
	p := nn.NewParameter("x", []float64{1, 2}, 2)
	p.SetGrad([]float64{1})
	optimizer := optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 1})

	assert.ErrorIs(t, optimizer.Step(), nn.ErrShapeMismatch)
}

func TestZeroGrad(t *testing.T) {
	p := param(1, 1)
	for _, optimizer := range []optim.Optimizer{
		optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{}),
		optim.NewAdam([]*nn.Parameter{p}, optim.AdamConfig{}),
	} {
		p.SetGrad([]float64{1})
		optimizer.ZeroGrad()
		assert.Nil(t, p.Grad())
	}
}

// TestAdam_FirstStep checks the bias-corrected first update, which moves
// every parameter by lr regardless of gradient magnitude.
func TestAdam_FirstStep(t *testing.T) {
	p := param(1.0, 5.0)
	q := param(1.0, -0.01)
	optimizer := optim.NewAdam([]*nn.Parameter{p, q}, optim.AdamConfig{LR: 0.1})

	require.NoError(t, optimizer.Step())
	assert.InDelta(t, 0.9, p.Value()[0], 1e-6)
	assert.InDelta(t, 1.1, q.Value()[0], 1e-5)
}

func TestAdam_Defaults(t *testing.T) {
	optimizer := optim.NewAdam(nil, optim.AdamConfig{})
	assert.Equal(t, 0.001, optimizer.LR())
}

// TestAdam_Minimizes runs Adam on f(x) = (x - 3)².
func TestAdam_Minimizes(t *testing.T) {
	p := nn.NewParameter("x", []float64{0}, 1)
	optimizer := optim.NewAdam([]*nn.Parameter{p}, optim.AdamConfig{LR: 0.1})

	for i := 0; i < 500; i++ {
		p.SetGrad([]float64{2 * (p.Value()[0] - 3)})
		require.NoError(t, optimizer.Step())
	}
	assert.InDelta(t, 3.0, p.Value()[0], 5e-2)
}

// TestSGD_TrainsAffine fits y = 2x + 1 with a single Affine layer and a
// squared-error gradient.
func TestSGD_TrainsAffine(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layer := nn.NewAffineInit(1, 1, nn.Normal(0.1), rng)
	optimizer := optim.NewSGD(layer.Parameters(), optim.SGDConfig{LR: 0.1, Momentum: 0.5})

	x := mat.NewDense(4, 1, []float64{-1, 0, 1, 2})
	target := mat.NewDense(4, 1, []float64{-1, 1, 3, 5})

	for i := 0; i < 300; i++ {
		y, err := layer.Forward(x)
		require.NoError(t, err)

		var dout mat.Dense
		dout.Sub(y, target)
		dout.Scale(2.0/4, &dout)

		_, err = layer.Backward(&dout)
		require.NoError(t, err)
		require.NoError(t, optimizer.Step())
		optimizer.ZeroGrad()
	}

	assert.InDelta(t, 2.0, layer.Weight().At(0, 0), 1e-3)
	assert.InDelta(t, 1.0, layer.Bias().AtVec(0), 1e-3)
	assert.False(t, math.IsNaN(layer.Weight().At(0, 0)))
}
