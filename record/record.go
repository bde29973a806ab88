// Package record defines ProgramRecord, the value type flowing through the encoder
// and the metrics engine.
package record

import (
	"cmp"
	"math"
	"slices"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/internal/hash"
)

// ProgramRecord is one observation of a program for one time period.
//
// Records are plain values; the encoder stores every field verbatim and never
// revalidates business rules beyond the structural checks in Validate.
type ProgramRecord struct {
	// Identifier names the program. Must be non-empty.
	Identifier string `json:"identifier" yaml:"identifier"`
	// TimePeriod is a lexicographically sortable label such as "2025-Q1".
	TimePeriod string `json:"time_period" yaml:"time_period"`
	// Beneficiaries is the number of people served. Must be positive.
	Beneficiaries int64 `json:"beneficiaries" yaml:"beneficiaries"`
	// Cost is the total cost incurred. Must be non-negative.
	Cost             float64 `json:"cost" yaml:"cost"`
	PreOutcomeScore  float64 `json:"pre_outcome_score" yaml:"pre_outcome_score"`
	PostOutcomeScore float64 `json:"post_outcome_score" yaml:"post_outcome_score"`
}

// Field names as used in record files and reported by InvalidRecordError.
const (
	FieldIdentifier       = "identifier"
	FieldTimePeriod       = "time_period"
	FieldBeneficiaries    = "beneficiaries"
	FieldCost             = "cost"
	FieldPreOutcomeScore  = "pre_outcome_score"
	FieldPostOutcomeScore = "post_outcome_score"
)

// Validate checks the structural invariants the encoder relies on.
//
// Returns:
//   - error: *errs.InvalidRecordError (Index -1) naming the first offending field, or nil
func (r ProgramRecord) Validate() error {
	if e := r.check(); e != nil {
		return e
	}

	return nil
}

func (r ProgramRecord) check() *errs.InvalidRecordError {
	switch {
	case r.Identifier == "":
		return invalid(FieldIdentifier, "must not be empty")
	case r.Beneficiaries <= 0:
		return invalid(FieldBeneficiaries, "must be greater than zero")
	case math.IsNaN(r.Cost) || math.IsInf(r.Cost, 0):
		return invalid(FieldCost, "must be finite")
	case r.Cost < 0:
		return invalid(FieldCost, "must not be negative")
	case math.IsNaN(r.PreOutcomeScore) || math.IsInf(r.PreOutcomeScore, 0):
		return invalid(FieldPreOutcomeScore, "must be finite")
	case math.IsNaN(r.PostOutcomeScore) || math.IsInf(r.PostOutcomeScore, 0):
		return invalid(FieldPostOutcomeScore, "must be finite")
	}

	return nil
}

// Hash returns a fingerprint of every field of r. Equal records hash equally;
// decimal fields contribute their exact bits.
func (r ProgramRecord) Hash() uint64 {
	return hash.NewDigest().
		String(r.Identifier).
		String(r.TimePeriod).
		Int64(r.Beneficiaries).
		Float64(r.Cost).
		Float64(r.PreOutcomeScore).
		Float64(r.PostOutcomeScore).
		Sum64()
}

// ValidateAll validates every record and reports the first failure with its index.
func ValidateAll(records []ProgramRecord) error {
	for i, r := range records {
		if e := r.check(); e != nil {
			return e.AtIndex(i)
		}
	}

	return nil
}

// ComparePeriod orders records by time period, then by identifier.
func ComparePeriod(a, b ProgramRecord) int {
	if c := cmp.Compare(a.TimePeriod, b.TimePeriod); c != 0 {
		return c
	}

	return cmp.Compare(a.Identifier, b.Identifier)
}

// SortByPeriod returns a copy of records stably sorted by time period.
// Records sharing a period keep their input order.
func SortByPeriod(records []ProgramRecord) []ProgramRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b ProgramRecord) int {
		return cmp.Compare(a.TimePeriod, b.TimePeriod)
	})

	return sorted
}

func invalid(field, reason string) *errs.InvalidRecordError {
	return &errs.InvalidRecordError{Index: -1, Field: field, Reason: reason}
}
