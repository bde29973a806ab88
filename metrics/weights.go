package metrics

import (
	"fmt"
	"math"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/internal/hash"
)

// Weights are the relative contributions of the composite score components.
// They need not sum to one; the score divides by the sum of the weights in use.
type Weights struct {
	OutcomeImprovement float64 `mapstructure:"outcome_improvement" yaml:"outcome_improvement"`
	CostEfficiency     float64 `mapstructure:"cost_efficiency" yaml:"cost_efficiency"`
	GrowthRate         float64 `mapstructure:"growth_rate" yaml:"growth_rate"`
}

// DefaultWeights returns 0.40 outcome, 0.35 cost efficiency, 0.25 growth.
func DefaultWeights() Weights {
	return Weights{
		OutcomeImprovement: 0.40,
		CostEfficiency:     0.35,
		GrowthRate:         0.25,
	}
}

// Validate checks that every weight is finite and non-negative, and that the
// outcome and cost weights leave something to score when growth is undefined.
func (w Weights) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"outcome_improvement", w.OutcomeImprovement},
		{"cost_efficiency", w.CostEfficiency},
		{"growth_rate", w.GrowthRate},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s weight %v must be finite and non-negative", errs.ErrInvalidWeights, f.name, f.value)
		}
	}

	if w.OutcomeImprovement+w.CostEfficiency <= 0 {
		return fmt.Errorf("%w: outcome and cost weights are both zero", errs.ErrInvalidWeights)
	}

	return nil
}

// Version returns a fingerprint of the weights for cache keys.
func (w Weights) Version() uint64 {
	return hash.NewDigest().
		Float64(w.OutcomeImprovement).
		Float64(w.CostEfficiency).
		Float64(w.GrowthRate).
		Sum64()
}
