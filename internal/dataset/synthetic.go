package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Synthetic generates a linearly separable toy problem: one Gaussian blob
// per class with centers drawn from [-3, 3]^features and unit-half spread.
//
// Useful for exercising the training pipeline without data files.
func Synthetic(n, features, classes int, rng *rand.Rand) *Dataset {
	centers := make([][]float64, classes)
	for c := range centers {
		centers[c] = make([]float64, features)
		for f := range centers[c] {
			centers[c][f] = rng.Float64()*6 - 3
		}
	}

	x := mat.NewDense(n, features, nil)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		c := i % classes
		labels[i] = c
		for f := 0; f < features; f++ {
			x.Set(i, f, centers[c][f]+rng.NormFloat64()*0.5)
		}
	}

	return &Dataset{X: x, Labels: labels, Classes: classes}
}
