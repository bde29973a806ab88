package analytics

import (
	"fmt"

	"github.com/arloliu/impact/internal/options"
	"github.com/arloliu/impact/metrics"
)

// Config holds the settings of a Summarize call.
type Config struct {
	concurrency int
	weights     metrics.Weights
	bounds      *metrics.Bounds
	cache       *metrics.Cache
}

// NewConfig returns the default configuration: one worker, default weights,
// bounds computed from the records and no cache.
func NewConfig() *Config {
	return &Config{
		concurrency: 1,
		weights:     metrics.DefaultWeights(),
	}
}

// Option is a functional option for Summarize.
type Option = options.Option[*Config]

// WithConcurrency scores identifiers on n goroutines. Results do not depend on n.
func WithConcurrency(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		c.concurrency = n

		return nil
	})
}

// WithWeights sets the composite score weights.
func WithWeights(w metrics.Weights) Option {
	return options.New(func(c *Config) error {
		if err := w.Validate(); err != nil {
			return err
		}
		c.weights = w

		return nil
	})
}

// WithBounds normalizes against b instead of bounds computed from the records.
func WithBounds(b metrics.Bounds) Option {
	return options.NoError(func(c *Config) {
		c.bounds = &b
	})
}

// WithCache memoizes metric results in cache, which may be shared across calls.
func WithCache(cache *metrics.Cache) Option {
	return options.NoError(func(c *Config) {
		c.cache = cache
	})
}
