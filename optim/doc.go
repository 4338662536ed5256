// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers hold the parameters they update. After a backward pass each
// parameter carries its gradient; Step applies it in place.
//
// # Basic Usage
//
//	import (
//	    "log"
//	    "math/rand"
//
//	    "github.com/born-ml/backprop/nn"
//	    "github.com/born-ml/backprop/optim"
//	)
//
//	func main() {
//	    model := nn.NewTwoLayerNet(784, 50, 10, rand.New(rand.NewSource(1)))
//
//	    // Create optimizer
//	    optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	    // Training loop
//	    for epoch := range 10 {
//	        for _, batch := range batches {
//	            // 1. Forward and backward pass
//	            if _, err := model.Gradient(batch.X, batch.T); err != nil {
//	                log.Fatal(err)
//	            }
//
//	            // 2. Update parameters
//	            if err := optimizer.Step(); err != nil {
//	                log.Fatal(err)
//	            }
//
//	            // 3. Clear gradients
//	            optimizer.ZeroGrad()
//	        }
//	    }
//	}
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent):
//
//	optimizer := optim.NewSGD(
//	    model.Parameters(),
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	)
//
// Adam (Adaptive Moment Estimation):
//
//	optimizer := optim.NewAdam(
//	    model.Parameters(),
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float64{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	)
package optim
