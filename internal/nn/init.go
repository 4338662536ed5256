package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Initializer fills a fanIn x fanOut weight matrix.
type Initializer func(fanIn, fanOut int, rng *rand.Rand) *mat.Dense

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// Suited to sigmoid layers.
func Xavier(fanIn, fanOut int, rng *rand.Rand) *mat.Dense {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	data := make([]float64, fanIn*fanOut)
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return mat.NewDense(fanIn, fanOut, data)
}

// He initialization draws from N(0, 2/fan_in). Suited to ReLU layers.
func He(fanIn, fanOut int, rng *rand.Rand) *mat.Dense {
	return normal(fanIn, fanOut, math.Sqrt(2.0/float64(fanIn)), rng)
}

// Normal returns an Initializer drawing from N(0, std²).
func Normal(std float64) Initializer {
	return func(fanIn, fanOut int, rng *rand.Rand) *mat.Dense {
		return normal(fanIn, fanOut, std, rng)
	}
}

func normal(fanIn, fanOut int, std float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, fanIn*fanOut)
	for i := range data {
		data[i] = rng.NormFloat64() * std
	}
	return mat.NewDense(fanIn, fanOut, data)
}

// Zeros creates a zero vector of length n, the usual bias initialization.
func Zeros(n int) *mat.VecDense {
	return mat.NewVecDense(n, nil)
}
