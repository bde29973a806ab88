package metrics

import (
	"fmt"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/record"
)

// Result holds every metric of one record.
type Result struct {
	OutcomeImprovement   float64  `json:"outcome_improvement"`
	CostPerBeneficiary   float64  `json:"cost_per_beneficiary"`
	GrowthRate           Optional `json:"growth_rate"`
	CompositeImpactScore Optional `json:"composite_impact_score"`
}

// OutcomeImprovement returns post score minus pre score. Regressions are negative.
func OutcomeImprovement(r record.ProgramRecord) float64 {
	return r.PostOutcomeScore - r.PreOutcomeScore
}

// CostPerBeneficiary returns cost divided by beneficiaries.
//
// Returns errs.ErrDivisionByZero when the record has no beneficiaries.
func CostPerBeneficiary(r record.ProgramRecord) (float64, error) {
	if r.Beneficiaries <= 0 {
		return 0, fmt.Errorf("%w: %q has %d beneficiaries", errs.ErrDivisionByZero, r.Identifier, r.Beneficiaries)
	}

	return r.Cost / float64(r.Beneficiaries), nil
}

// GrowthRate returns the relative change in beneficiaries from previous.
// It is undefined when previous is nil or has no beneficiaries.
func GrowthRate(current record.ProgramRecord, previous *record.ProgramRecord) Optional {
	if previous == nil || previous.Beneficiaries == 0 {
		return None()
	}

	prev := float64(previous.Beneficiaries)

	return Some((float64(current.Beneficiaries) - prev) / prev)
}

// CompositeImpactScore returns the default-weighted composite score of current.
// See Compose for the combination rules.
func CompositeImpactScore(current record.ProgramRecord, previous *record.ProgramRecord, bounds Bounds) (Optional, error) {
	res, err := ComputeWeighted(current, previous, bounds, DefaultWeights())
	if err != nil {
		return None(), err
	}

	return res.CompositeImpactScore, nil
}

// Compute returns all metrics of current using the default weights.
func Compute(current record.ProgramRecord, previous *record.ProgramRecord, bounds Bounds) (Result, error) {
	return ComputeWeighted(current, previous, bounds, DefaultWeights())
}

// ComputeWeighted returns all metrics of current using the given weights.
func ComputeWeighted(current record.ProgramRecord, previous *record.ProgramRecord, bounds Bounds, w Weights) (Result, error) {
	if err := w.Validate(); err != nil {
		return Result{}, err
	}

	cpb, err := CostPerBeneficiary(current)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		OutcomeImprovement: OutcomeImprovement(current),
		CostPerBeneficiary: cpb,
		GrowthRate:         GrowthRate(current, previous),
	}
	res.CompositeImpactScore = Compose(res.OutcomeImprovement, res.CostPerBeneficiary, res.GrowthRate, bounds, w)

	return res, nil
}

// Compose blends already computed metrics into a score in [0,100].
//
// Outcome improvement and growth rate are min-max normalized against bounds;
// cost per beneficiary is normalized and inverted, so cheaper is better. When
// the growth component is undefined its weight is redistributed across the other
// two in proportion to their weights. The score is undefined when outcome or
// cost cannot be normalized.
func Compose(outcome, costPerBeneficiary float64, growth Optional, bounds Bounds, w Weights) Optional {
	outcomeNorm := bounds.OutcomeImprovement.Normalize(outcome)
	costNorm := bounds.CostPerBeneficiary.Normalize(costPerBeneficiary)
	if !outcomeNorm.Valid || !costNorm.Valid {
		return None()
	}

	sum := w.OutcomeImprovement*outcomeNorm.Value + w.CostEfficiency*(100-costNorm.Value)
	total := w.OutcomeImprovement + w.CostEfficiency

	if growth.Valid {
		if growthNorm := bounds.GrowthRate.Normalize(growth.Value); growthNorm.Valid {
			sum += w.GrowthRate * growthNorm.Value
			total += w.GrowthRate
		}
	}

	if total <= 0 {
		return None()
	}

	return Some(clamp(sum / total))
}
