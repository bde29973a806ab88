package metrics

import (
	"math"

	"github.com/arloliu/impact/internal/hash"
)

// midpoint is the normalized value of any input against a degenerate range.
const midpoint = 50.0

// Range is a closed min-max interval used for normalization.
// The zero Range is empty: it has observed nothing and normalizes nothing.
type Range struct {
	Min   float64
	Max   float64
	Valid bool
}

// NewRange returns the range [lo, hi], swapping the ends if needed.
func NewRange(lo, hi float64) Range {
	if lo > hi {
		lo, hi = hi, lo
	}

	return Range{Min: lo, Max: hi, Valid: true}
}

// Observe widens the range to include v. Non-finite values are ignored.
func (r *Range) Observe(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}

	if !r.Valid {
		*r = Range{Min: v, Max: v, Valid: true}
		return
	}

	r.Min = min(r.Min, v)
	r.Max = max(r.Max, v)
}

// Normalize maps v onto [0,100] relative to the range, clamping values that
// fall outside it. A degenerate range (Min == Max) yields 50.
// The result is undefined for an empty range or a non-finite v. Ranges wider
// than the float64 limit are scaled down before normalizing.
func (r Range) Normalize(v float64) Optional {
	if !r.Valid || math.IsNaN(v) || math.IsInf(v, 0) {
		return None()
	}

	if r.Max == r.Min {
		return Some(midpoint)
	}

	lo, hi := r.Min, r.Max
	if math.IsInf(hi-lo, 0) {
		v, lo, hi = v/2, lo/2, hi/2
	}

	n := (v - lo) / (hi - lo) * 100
	if math.IsNaN(n) {
		return None()
	}

	return Some(clamp(n))
}

// Bounds holds the normalization ranges of the composite score components.
//
// The aggregator observes every record of the compared set once and passes the
// resulting Bounds to each score computation.
type Bounds struct {
	OutcomeImprovement Range
	CostPerBeneficiary Range
	GrowthRate         Range
}

// FixedBounds returns the static ranges used when no record set is available:
// outcome improvement 0..100, cost per beneficiary 0..1000, growth rate -1..2.
func FixedBounds() Bounds {
	return Bounds{
		OutcomeImprovement: NewRange(0, 100),
		CostPerBeneficiary: NewRange(0, 1000),
		GrowthRate:         NewRange(-1, 2),
	}
}

// Observe widens the bounds with one set of metric values.
// An undefined growth rate leaves the growth range unchanged.
func (b *Bounds) Observe(outcome, costPerBeneficiary float64, growth Optional) {
	b.OutcomeImprovement.Observe(outcome)
	b.CostPerBeneficiary.Observe(costPerBeneficiary)
	if growth.Valid {
		b.GrowthRate.Observe(growth.Value)
	}
}

// Version returns a fingerprint of the bounds. Two Bounds with the same
// version normalize every input identically.
func (b Bounds) Version() uint64 {
	d := hash.NewDigest()
	for _, r := range []Range{b.OutcomeImprovement, b.CostPerBeneficiary, b.GrowthRate} {
		d.Bool(r.Valid).Float64(r.Min).Float64(r.Max)
	}

	return d.Sum64()
}

func clamp(v float64) float64 {
	return max(0, min(100, v))
}
