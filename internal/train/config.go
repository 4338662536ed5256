package train

// Default training settings.
const (
	DefaultEpochs    = 10
	DefaultBatchSize = 100
	DefaultLogEvery  = 1
)

// Config holds configuration for a training run.
type Config struct {
	Epochs    int   // Passes over the training set (default: 10)
	BatchSize int   // Samples per mini-batch (default: 100)
	Seed      int64 // Shuffle seed; equal seeds give equal batch orders
	LogEvery  int   // Log every N epochs (default: 1); the last epoch is always logged
}

// withDefaults fills zero fields with their defaults.
func (c Config) withDefaults() Config {
	if c.Epochs <= 0 {
		c.Epochs = DefaultEpochs
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.LogEvery <= 0 {
		c.LogEvery = DefaultLogEvery
	}
	return c
}
