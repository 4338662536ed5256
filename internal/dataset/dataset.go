// Package dataset loads labelled samples into gonum matrices and cuts them
// into mini-batches with one-hot targets.
package dataset

import (
	"math/rand"

	"github.com/born-ml/backprop/internal/parallel"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrEmpty is returned when an operation would produce a dataset without samples.
var ErrEmpty = errors.New("dataset is empty")

// Dataset holds a sample matrix and its class labels.
type Dataset struct {
	X       *mat.Dense // [num_samples, num_features]
	Labels  []int      // [num_samples], values in [0, Classes)
	Classes int
}

// New validates and wraps samples and labels.
func New(x *mat.Dense, labels []int, classes int) (*Dataset, error) {
	if x == nil || x.IsEmpty() || len(labels) == 0 {
		return nil, ErrEmpty
	}
	rows, _ := x.Dims()
	if rows != len(labels) {
		return nil, errors.Errorf("sample count (%d) != label count (%d)", rows, len(labels))
	}
	for i, l := range labels {
		if l < 0 || l >= classes {
			return nil, errors.Errorf("label out of range [0, %d) at row %d: %d", classes, i, l)
		}
	}
	return &Dataset{X: x, Labels: labels, Classes: classes}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Features returns the number of features per sample.
func (d *Dataset) Features() int {
	_, c := d.X.Dims()
	return c
}

// OneHot returns the labels as a [num_samples, Classes] one-hot matrix.
func (d *Dataset) OneHot() *mat.Dense {
	return OneHot(d.Labels, d.Classes)
}

// OneHot encodes labels as rows of a one-hot matrix.
func OneHot(labels []int, classes int) *mat.Dense {
	t := mat.NewDense(len(labels), classes, nil)
	for i, l := range labels {
		t.Set(i, l, 1)
	}
	return t
}

// Split splits the dataset into train and validation sets.
//
// validationRatio is the fraction of samples, taken from the end, that go
// to the validation set. Both parts share storage with d.
func (d *Dataset) Split(validationRatio float64) (*Dataset, *Dataset, error) {
	n := d.Len()
	splitIdx := int(float64(n) * (1.0 - validationRatio))
	if splitIdx <= 0 || splitIdx >= n {
		return nil, nil, errors.Wrapf(ErrEmpty, "split %d samples at ratio %v", n, validationRatio)
	}
	cols := d.Features()

	return &Dataset{
			X:       d.X.Slice(0, splitIdx, 0, cols).(*mat.Dense),
			Labels:  d.Labels[:splitIdx],
			Classes: d.Classes,
		}, &Dataset{
			X:       d.X.Slice(splitIdx, n, 0, cols).(*mat.Dense),
			Labels:  d.Labels[splitIdx:],
			Classes: d.Classes,
		}, nil
}

// Batch represents a mini-batch for training.
type Batch struct {
	X    *mat.Dense // [size, num_features]
	T    *mat.Dense // [size, classes], one-hot
	Size int
}

// Batches splits the dataset into mini-batches.
//
// Samples are shuffled with rng first unless rng is nil. The last batch may
// be smaller if the dataset doesn't divide evenly.
func (d *Dataset) Batches(batchSize int, rng *rand.Rand) ([]*Batch, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size must be positive, got %d", batchSize)
	}
	n := d.Len()
	if n == 0 {
		return nil, ErrEmpty
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	cols := d.Features()
	batches := make([]*Batch, (n+batchSize-1)/batchSize)
	parallel.For(len(batches), func(b int) {
		start := b * batchSize
		end := min(start+batchSize, n)
		size := end - start

		x := mat.NewDense(size, cols, nil)
		labels := make([]int, size)
		for j, idx := range indices[start:end] {
			x.SetRow(j, d.X.RawRowView(idx))
			labels[j] = d.Labels[idx]
		}

		batches[b] = &Batch{
			X:    x,
			T:    OneHot(labels, d.Classes),
			Size: size,
		}
	}, parallel.DefaultConfig())
	return batches, nil
}
