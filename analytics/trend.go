package analytics

import (
	"iter"

	"github.com/arloliu/impact/metrics"
	"github.com/arloliu/impact/record"
)

// TrendPoint is one step of a beneficiary growth trend.
type TrendPoint struct {
	Identifier    string           `json:"identifier"`
	TimePeriod    string           `json:"time_period"`
	Beneficiaries int64            `json:"beneficiaries"`
	GrowthRate    metrics.Optional `json:"growth_rate"`
}

// ProgramTrend is one record's contribution to the trend charts.
type ProgramTrend struct {
	Identifier         string  `json:"identifier"`
	TimePeriod         string  `json:"time_period"`
	Beneficiaries      int64   `json:"beneficiaries"`
	Cost               float64 `json:"cost"`
	OutcomeImprovement float64 `json:"outcome_improvement"`
}

// GrowthTrend yields the records in time period order with each record's growth
// rate relative to the previous period of the same identifier.
//
// The sequence is finite and restartable: every range derives the points again
// from a private copy of records.
func GrowthTrend(records []record.ProgramRecord) iter.Seq[TrendPoint] {
	sorted := record.SortByPeriod(records)

	return func(yield func(TrendPoint) bool) {
		prev := Predecessors(sorted)
		for i, r := range sorted {
			p := TrendPoint{
				Identifier:    r.Identifier,
				TimePeriod:    r.TimePeriod,
				Beneficiaries: r.Beneficiaries,
				GrowthRate:    metrics.GrowthRate(r, prev[i]),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Trends returns the per-record chart series in time period order.
func Trends(records []record.ProgramRecord) []ProgramTrend {
	sorted := record.SortByPeriod(records)
	out := make([]ProgramTrend, len(sorted))

	for i, r := range sorted {
		out[i] = ProgramTrend{
			Identifier:         r.Identifier,
			TimePeriod:         r.TimePeriod,
			Beneficiaries:      r.Beneficiaries,
			Cost:               r.Cost,
			OutcomeImprovement: metrics.OutcomeImprovement(r),
		}
	}

	return out
}
