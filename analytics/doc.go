// Package analytics aggregates metrics over a set of program records.
//
// Summarize computes normalization bounds once over the whole set, scores every
// record against its predecessor (the previous period of the same identifier)
// and ranks programs by the score of their latest record. GrowthTrend and Trends
// produce the period-ordered series used for charts.
//
// All functions are side-effect free and never modify their input slice.
package analytics
