// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides backpropagation layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Primitives: Softmax, Sigmoid, CrossEntropyError
//   - Layers: Affine, SoftmaxWithLoss, ReLU, SigmoidLayer
//   - Scalar layers: AddLayer, MulLayer (computational graph demos)
//   - Utilities: Sequential, Layer interface, Parameter
//   - Initialization: Xavier, He, Normal, Zeros
//
// Matrices are gonum *mat.Dense values with one sample per row.
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/backprop/nn"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewSource(1))
//
//	    // Build a two-layer network: Affine -> ReLU -> Affine -> SoftmaxWithLoss
//	    model := nn.NewTwoLayerNet(784, 50, 10, rng)
//
//	    // Forward and backward pass
//	    loss, err := model.Gradient(x, t)
//	}
//
// # Layers
//
// Affine: fully connected layer y = x·W + b. Backward yields dx, dW and db.
//
// SoftmaxWithLoss: terminal layer fusing softmax and cross-entropy. Backward
// yields (y - t) / batchSize.
//
// # State
//
// Layers cache the inputs of their last Forward call. Backward on a layer
// that has not run Forward returns ErrNotReady. Shape errors wrap
// ErrShapeMismatch in a *LayerError naming the layer and phase.
package nn
