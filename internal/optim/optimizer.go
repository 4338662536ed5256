// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradients that layers leave on their parameters after
// a backward pass and write the updated values back in place.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})
//
//	for epoch := range epochs {
//	    for _, batch := range batches {
//	        if _, err := model.Gradient(batch.X, batch.T); err != nil {
//	            return err
//	        }
//	        if err := optimizer.Step(); err != nil {
//	            return err
//	        }
//	        optimizer.ZeroGrad()
//	    }
//	}
package optim

import (
	"github.com/born-ml/backprop/internal/nn"
	"github.com/pkg/errors"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - LR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient.
	// Parameters whose layer has not run Backward are skipped.
	Step() error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64

	// SetLR updates the learning rate, e.g. for scheduling.
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// gradient returns the gradient of p, nil if it has none, or an error when
// its length does not match the parameter.
func gradient(p *nn.Parameter) ([]float64, error) {
	grad := p.Grad()
	if grad == nil {
		return nil, nil
	}
	if len(grad) != len(p.Value()) {
		return nil, errors.Wrapf(nn.ErrShapeMismatch, "%s: gradient has %d elements, parameter has %d",
			p.Name(), len(grad), len(p.Value()))
	}
	return grad, nil
}

func zeroGrad(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
