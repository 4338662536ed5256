// Package train runs mini-batch training of a network with an optimizer.
package train

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/born-ml/backprop/internal/dataset"
	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/optim"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Model is a network that can be trained against one-hot targets.
//
// *nn.Sequential satisfies it.
type Model interface {
	// Gradient runs forward and backward passes and returns the mean loss.
	Gradient(x, t *mat.Dense) (float64, error)
	Loss(x, t *mat.Dense) (float64, error)
	Accuracy(x, t *mat.Dense) (float64, error)
}

var _ Model = (*nn.Sequential)(nil)

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int // 1-based
	Loss     float64
	TrainAcc float64
	ValLoss  float64 // 0 without a validation set
	ValAcc   float64 // 0 without a validation set
	Elapsed  time.Duration
	Batches  int
}

// History is the per-epoch record of a training run.
type History []EpochStats

// Last returns the stats of the final completed epoch.
func (h History) Last() (EpochStats, bool) {
	if len(h) == 0 {
		return EpochStats{}, false
	}
	return h[len(h)-1], true
}

// Trainer drives a Model with an Optimizer over a dataset.
type Trainer struct {
	model     Model
	optimizer optim.Optimizer
	config    Config
	logger    *log.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger for progress lines (default: log.Default()).
func WithLogger(l *log.Logger) Option {
	return func(t *Trainer) {
		t.logger = l
	}
}

// NewTrainer creates a trainer. Zero Config fields take their defaults.
func NewTrainer(model Model, optimizer optim.Optimizer, config Config, opts ...Option) *Trainer {
	t := &Trainer{
		model:     model,
		optimizer: optimizer,
		config:    config.withDefaults(),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the effective configuration.
func (t *Trainer) Config() Config {
	return t.config
}

// Fit trains on train for the configured number of epochs and evaluates on
// val after each epoch when val is non-nil.
//
// ctx is checked before every batch. On cancellation or error the history
// of the completed epochs is returned with the error.
func (t *Trainer) Fit(ctx context.Context, train, val *dataset.Dataset) (History, error) {
	if train == nil || train.Len() == 0 {
		return nil, errors.Wrap(dataset.ErrEmpty, "training set")
	}
	rng := rand.New(rand.NewSource(t.config.Seed))
	history := make(History, 0, t.config.Epochs)

	for epoch := 1; epoch <= t.config.Epochs; epoch++ {
		start := time.Now()

		batches, err := train.Batches(t.config.BatchSize, rng)
		if err != nil {
			return history, errors.Wrap(err, "create batches")
		}
		for i, batch := range batches {
			if err := ctx.Err(); err != nil {
				return history, errors.Wrapf(err, "epoch %d interrupted", epoch)
			}
			if err := t.step(batch); err != nil {
				return history, errors.Wrapf(err, "epoch %d batch %d", epoch, i)
			}
		}

		stats := EpochStats{Epoch: epoch, Batches: len(batches)}
		if stats.Loss, stats.TrainAcc, err = t.Evaluate(train); err != nil {
			return history, errors.Wrapf(err, "epoch %d: evaluate training set", epoch)
		}
		if val != nil {
			if stats.ValLoss, stats.ValAcc, err = t.Evaluate(val); err != nil {
				return history, errors.Wrapf(err, "epoch %d: evaluate validation set", epoch)
			}
		}
		stats.Elapsed = time.Since(start)
		history = append(history, stats)

		if epoch%t.config.LogEvery == 0 || epoch == t.config.Epochs {
			t.logEpoch(stats, val != nil)
		}
	}
	return history, nil
}

// step runs one forward/backward pass and applies the optimizer.
func (t *Trainer) step(batch *dataset.Batch) error {
	loss, err := t.model.Gradient(batch.X, batch.T)
	if err != nil {
		return err
	}
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return errors.Wrapf(nn.ErrNumericDomain, "loss is %v", loss)
	}
	if err := t.optimizer.Step(); err != nil {
		return errors.Wrap(err, "optimizer step")
	}
	t.optimizer.ZeroGrad()
	return nil
}

// Evaluate returns the mean loss and accuracy of the model over ds,
// weighting each batch by its size.
func (t *Trainer) Evaluate(ds *dataset.Dataset) (loss, accuracy float64, err error) {
	batches, err := ds.Batches(t.config.BatchSize, nil)
	if err != nil {
		return 0, 0, err
	}
	for _, batch := range batches {
		l, err := t.model.Loss(batch.X, batch.T)
		if err != nil {
			return 0, 0, err
		}
		a, err := t.model.Accuracy(batch.X, batch.T)
		if err != nil {
			return 0, 0, err
		}
		w := float64(batch.Size)
		loss += l * w
		accuracy += a * w
	}
	n := float64(ds.Len())
	return loss / n, accuracy / n, nil
}

func (t *Trainer) logEpoch(s EpochStats, hasVal bool) {
	if hasVal {
		t.logger.Printf("epoch %2d/%d: loss=%.4f train_acc=%.2f%% val_loss=%.4f val_acc=%.2f%% (%s)",
			s.Epoch, t.config.Epochs, s.Loss, s.TrainAcc*100, s.ValLoss, s.ValAcc*100, s.Elapsed.Round(time.Millisecond))
		return
	}
	t.logger.Printf("epoch %2d/%d: loss=%.4f train_acc=%.2f%% (%s)",
		s.Epoch, t.config.Epochs, s.Loss, s.TrainAcc*100, s.Elapsed.Round(time.Millisecond))
}
