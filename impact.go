// Package impact provides a compact, exactly reversible encoding for social
// program impact records and the metrics computed over them.
//
// Records are encoded into blocks that store each program identifier once in a
// dictionary and each beneficiary count as the difference from the previous
// record of the same program. Blocks serialize into a checksummed binary format
// with optional compression. On top of the records, the metrics engine derives
// outcome improvement, cost per beneficiary, growth and a composite impact score,
// and the analytics package aggregates them into rankings and trends.
//
// # Basic Usage
//
// Encoding a batch of records:
//
//	import "github.com/arloliu/impact"
//
//	records := []impact.ProgramRecord{
//	    {Identifier: "prog1", TimePeriod: "2025-Q1", Beneficiaries: 100, Cost: 1000, PreOutcomeScore: 50, PostOutcomeScore: 70},
//	    {Identifier: "prog1", TimePeriod: "2025-Q2", Beneficiaries: 200, Cost: 1500, PreOutcomeScore: 70, PostOutcomeScore: 80},
//	}
//	b, _ := impact.EncodeBatch(records)
//	data, _ := impact.Marshal(b, block.WithCompression(format.CompressionZstd))
//
// Decoding and scoring:
//
//	b, _ = impact.Unmarshal(data)
//	records, _ = impact.DecodeBlock(b)
//	summary, _ := impact.Summarize(records)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the block,
// metrics and analytics packages for the most common use cases. For sessions,
// options and fine-grained control, use those packages directly.
package impact

import (
	"iter"

	"github.com/arloliu/impact/analytics"
	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/metrics"
	"github.com/arloliu/impact/record"
)

// ProgramRecord is one observation of a program for one time period.
type ProgramRecord = record.ProgramRecord

// EncodedBlock is the compact representation of an ordered batch of records.
type EncodedBlock = block.EncodedBlock

// Summary aggregates the metrics of a record set.
type Summary = analytics.Summary

// EncodeBatch encodes records into a new block.
//
// Returns *errs.InvalidRecordError (with the record index) if any record
// violates a structural invariant; no partial block is returned.
func EncodeBatch(records []ProgramRecord) (*EncodedBlock, error) {
	return block.EncodeBatch(records)
}

// DecodeBlock reconstructs the records of b in their original order.
func DecodeBlock(b *EncodedBlock) ([]ProgramRecord, error) {
	return block.DecodeBlock(b)
}

// Append returns a new block holding b's records followed by r. b is not modified.
func Append(b *EncodedBlock, r ProgramRecord) (*EncodedBlock, error) {
	return block.Append(b, r)
}

// Marshal serializes b into the binary block format.
//
// Example:
//
//	data, err := impact.Marshal(b,
//	    block.WithCompression(format.CompressionS2),
//	    block.WithBigEndian(),
//	)
func Marshal(b *EncodedBlock, opts ...block.MarshalOption) ([]byte, error) {
	return block.Marshal(b, opts...)
}

// Unmarshal parses and verifies a serialized block.
func Unmarshal(data []byte) (*EncodedBlock, error) {
	return block.Unmarshal(data)
}

// Compute derives the metrics of current against its predecessor (nil for the
// first record of a program), normalizing against the fixed reference bounds.
func Compute(current ProgramRecord, previous *ProgramRecord) (metrics.Result, error) {
	return metrics.Compute(current, previous, metrics.FixedBounds())
}

// Summarize scores every record and ranks programs by their latest score.
func Summarize(records []ProgramRecord, opts ...analytics.Option) (Summary, error) {
	return analytics.Summarize(records, opts...)
}

// GrowthTrend yields the records in time period order with their growth rates.
func GrowthTrend(records []ProgramRecord) iter.Seq[analytics.TrendPoint] {
	return analytics.GrowthTrend(records)
}
