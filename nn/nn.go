// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/backprop/internal/nn"
	"gonum.org/v1/gonum/mat"
)

// Errors

// ErrShapeMismatch is wrapped by every shape validation failure.
var ErrShapeMismatch = nn.ErrShapeMismatch

// ErrNotReady is returned by Backward before any Forward call.
var ErrNotReady = nn.ErrNotReady

// ErrNumericDomain is returned when a value leaves the finite domain.
var ErrNumericDomain = nn.ErrNumericDomain

// LayerError records the layer and phase of a failure.
type LayerError = nn.LayerError

// Layer is implemented by every matrix layer.
type Layer = nn.Layer

// Parameter represents a trainable parameter in a network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter over value with the given shape.
func NewParameter(name string, value []float64, shape ...int) *Parameter {
	return nn.NewParameter(name, value, shape...)
}

// Primitives

// Eps keeps the logarithm in CrossEntropyError finite.
const Eps = nn.Eps

// Axis selects the dimension softmax normalizes over.
type Axis = nn.Axis

// Softmax axes.
const (
	AxisBatch = nn.AxisBatch
	AxisClass = nn.AxisClass
)

// Softmax normalizes each column of x after subtracting its global maximum.
func Softmax(x *mat.Dense) *mat.Dense {
	return nn.Softmax(x)
}

// SoftmaxAxis normalizes x over the given axis.
func SoftmaxAxis(x *mat.Dense, axis Axis) *mat.Dense {
	return nn.SoftmaxAxis(x, axis)
}

// Sigmoid applies the logistic function element-wise.
func Sigmoid(x *mat.Dense) *mat.Dense {
	return nn.Sigmoid(x)
}

// CrossEntropyError returns the unreduced element-wise cross-entropy.
func CrossEntropyError(y, t *mat.Dense) (*mat.Dense, error) {
	return nn.CrossEntropyError(y, t)
}

// Layers

// Affine represents a fully connected layer.
type Affine = nn.Affine

// NewAffine creates an affine layer from copies of w and b.
//
// Example:
//
//	w := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
//	b := mat.NewVecDense(3, []float64{0.1, 0.2, 0.3})
//	layer, err := nn.NewAffine(w, b)
func NewAffine(w *mat.Dense, b *mat.VecDense) (*Affine, error) {
	return nn.NewAffine(w, b)
}

// Initializer produces a weight matrix for a layer.
type Initializer = nn.Initializer

// NewAffineInit creates an in x out affine layer with initialized weights
// and zero bias.
func NewAffineInit(in, out int, init Initializer, rng *rand.Rand) *Affine {
	return nn.NewAffineInit(in, out, init, rng)
}

// Xavier draws weights uniformly from ±sqrt(6/(fanIn+fanOut)).
func Xavier(fanIn, fanOut int, rng *rand.Rand) *mat.Dense {
	return nn.Xavier(fanIn, fanOut, rng)
}

// He draws weights with std sqrt(2/fanIn).
func He(fanIn, fanOut int, rng *rand.Rand) *mat.Dense {
	return nn.He(fanIn, fanOut, rng)
}

// Normal returns an Initializer drawing from N(0, std²).
func Normal(std float64) Initializer {
	return nn.Normal(std)
}

// SoftmaxWithLoss represents the fused softmax and cross-entropy layer.
type SoftmaxWithLoss = nn.SoftmaxWithLoss

// LossOption configures a SoftmaxWithLoss layer.
type LossOption = nn.LossOption

// WithSoftmaxAxis selects the softmax axis of the loss layer.
func WithSoftmaxAxis(axis Axis) LossOption {
	return nn.WithSoftmaxAxis(axis)
}

// NewSoftmaxWithLoss creates a new loss layer.
//
// Example:
//
//	loss := nn.NewSoftmaxWithLoss(nn.WithSoftmaxAxis(nn.AxisClass))
func NewSoftmaxWithLoss(opts ...LossOption) *SoftmaxWithLoss {
	return nn.NewSoftmaxWithLoss(opts...)
}

// Activations

// ReLU represents the Rectified Linear Unit activation layer.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// SigmoidLayer represents the sigmoid activation layer.
type SigmoidLayer = nn.SigmoidLayer

// NewSigmoidLayer creates a new sigmoid activation layer.
func NewSigmoidLayer() *SigmoidLayer {
	return nn.NewSigmoidLayer()
}

// Scalar layers

// AddLayer adds two scalars; its gradient passes through unchanged.
type AddLayer = nn.AddLayer

// MulLayer multiplies two scalars.
type MulLayer = nn.MulLayer

// NewMulLayer creates a new multiplication layer.
//
// Example:
//
//	mul := nn.NewMulLayer()
//	price := mul.Forward(100, 2)   // 200
//	dx, dy, err := mul.Backward(1) // 2, 100
func NewMulLayer() *MulLayer {
	return nn.NewMulLayer()
}

// Containers

// Sequential chains layers and ends in a SoftmaxWithLoss layer.
type Sequential = nn.Sequential

// NewSequential creates a network from layers and a terminal loss layer.
func NewSequential(loss *SoftmaxWithLoss, layers ...Layer) *Sequential {
	return nn.NewSequential(loss, layers...)
}

// NewTwoLayerNet creates an Affine -> ReLU -> Affine network with He
// initialization and a row-wise softmax loss.
func NewTwoLayerNet(in, hidden, out int, rng *rand.Rand) *Sequential {
	return nn.NewTwoLayerNet(in, hidden, out, rng)
}
