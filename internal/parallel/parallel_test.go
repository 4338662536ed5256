package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	seen := make([]bool, 1000)
	For(len(seen), func(i int) {
		atomic.AddInt64(&counter, 1)
		seen[i] = true
	}, cfg)

	assert.Equal(t, int64(1000), counter)
	assert.NotContains(t, seen, false)
}

func TestFor_Sequential(t *testing.T) {
	var order []int
	For(5, func(i int) {
		order = append(order, i)
	}, Sequential())

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := DefaultConfig()

	var order []int
	For(cfg.MinChunkSize-1, func(i int) {
		order = append(order, i)
	}, cfg)

	assert.Len(t, order, cfg.MinChunkSize-1)
}

func TestFor_Empty(t *testing.T) {
	For(0, func(int) { t.Fatal("unexpected call") }, DefaultConfig())
}

func BenchmarkFor(b *testing.B) {
	data := make([]float64, 10000)

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			For(len(data), func(j int) { data[j] = float64(j) / 255 }, DefaultConfig())
		}
	})
	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			For(len(data), func(j int) { data[j] = float64(j) / 255 }, Sequential())
		}
	})
}
