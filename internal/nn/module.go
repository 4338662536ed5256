// Package nn implements the layers of a feed-forward classifier trained by
// backpropagation.
//
// This package provides:
//   - Numeric primitives: Softmax, Sigmoid, CrossEntropyError
//   - Affine: fully connected layer with cached input and dW/db gradients
//   - SoftmaxWithLoss: fused softmax + cross-entropy terminal layer
//   - AddLayer, MulLayer: scalar nodes for chain-rule computation graphs
//   - ReLU, SigmoidLayer: activation layers
//   - Sequential: a stack of layers ending in SoftmaxWithLoss
//
// Every stateful layer is either fresh or holds the cache of its last
// Forward call. Backward on a fresh layer returns ErrNotReady. Layers are not
// safe for concurrent use.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Layer is a differentiable stage in a Sequential network.
//
// Forward caches whatever Backward needs, replacing the previous cache.
// Backward takes the gradient of the loss with respect to the layer output
// and returns the gradient with respect to its input.
type Layer interface {
	Forward(x *mat.Dense) (*mat.Dense, error)
	Backward(dout *mat.Dense) (*mat.Dense, error)

	// Parameters returns the trainable parameters, or nil for stateless
	// activations.
	Parameters() []*Parameter
}

var (
	_ Layer = (*Affine)(nil)
	_ Layer = (*ReLU)(nil)
	_ Layer = (*SigmoidLayer)(nil)
)
