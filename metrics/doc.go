// Package metrics derives the performance metrics of a program record.
//
// Every function is pure: the same record, predecessor and bounds always give
// bit-identical results, so callers may cache or parallelize freely.
//
//   - OutcomeImprovement: post score minus pre score, never clamped
//   - CostPerBeneficiary: cost divided by beneficiaries
//   - GrowthRate: relative change in beneficiaries from the predecessor record
//   - CompositeImpactScore: weighted blend of the three, normalized to [0,100]
//
// A value that cannot be derived is an Optional with Valid set to false. It is
// never reported as zero.
package metrics
