package metrics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/record"
)

var (
	recA = record.ProgramRecord{
		Identifier: "prog1", TimePeriod: "2025-Q1",
		Beneficiaries: 200, Cost: 15000, PreOutcomeScore: 45, PostOutcomeScore: 78,
	}
	recB = record.ProgramRecord{
		Identifier: "prog1", TimePeriod: "2025-Q2",
		Beneficiaries: 300, Cost: 25000, PreOutcomeScore: 50, PostOutcomeScore: 85,
	}
)

func TestBasicMetrics(t *testing.T) {
	require.InDelta(t, 33.0, OutcomeImprovement(recA), 0)
	require.InDelta(t, 35.0, OutcomeImprovement(recB), 0)

	cpb, err := CostPerBeneficiary(recA)
	require.NoError(t, err)
	require.InDelta(t, 75.0, cpb, 0)

	cpb, err = CostPerBeneficiary(recB)
	require.NoError(t, err)
	require.InDelta(t, 83.33, cpb, 0.01)

	growth := GrowthRate(recB, &recA)
	require.True(t, growth.Valid)
	require.InDelta(t, 0.5, growth.Value, 0)
}

func TestOutcomeImprovement_Regression(t *testing.T) {
	r := recA
	r.PreOutcomeScore, r.PostOutcomeScore = 80, 60
	require.InDelta(t, -20.0, OutcomeImprovement(r), 0)
}

func TestCostPerBeneficiary_DivisionByZero(t *testing.T) {
	r := recA
	r.Beneficiaries = 0

	_, err := CostPerBeneficiary(r)
	require.ErrorIs(t, err, errs.ErrDivisionByZero)

	_, err = Compute(r, nil, FixedBounds())
	require.ErrorIs(t, err, errs.ErrDivisionByZero)
}

func TestGrowthRate_Undefined(t *testing.T) {
	require.False(t, GrowthRate(recA, nil).Valid, "first occurrence has no growth")

	zero := recA
	zero.Beneficiaries = 0
	require.Equal(t, None(), GrowthRate(recB, &zero))
}

func TestCompositeImpactScore_FixedBounds(t *testing.T) {
	bounds := FixedBounds()

	// no predecessor: growth weight redistributed, (0.40*33 + 0.35*92.5) / 0.75
	score, err := CompositeImpactScore(recA, nil, bounds)
	require.NoError(t, err)
	require.True(t, score.Valid)
	require.InDelta(t, 60.7666666, score.Value, 1e-6)

	// 0.40*35 + 0.35*(100-8.3333) + 0.25*50
	score, err = CompositeImpactScore(recB, &recA, bounds)
	require.NoError(t, err)
	require.True(t, score.Valid)
	require.InDelta(t, 58.5833333, score.Value, 1e-6)
}

func TestCompose_RedistributesMissingGrowth(t *testing.T) {
	bounds := FixedBounds()
	w := DefaultWeights()

	outcomeNorm := 40.0
	costNorm := 100 - 20.0
	want := outcomeNorm*(0.40/0.75) + costNorm*(0.35/0.75)

	got := Compose(40, 200, None(), bounds, w)
	require.True(t, got.Valid)
	require.InDelta(t, want, got.Value, 1e-9)

	// a missing growth term must not drag the score toward zero
	withZeroGrowthNorm := Compose(40, 200, Some(-1), bounds, w)
	require.Greater(t, got.Value, withZeroGrowthNorm.Value)
}

func TestCompose_Normalization(t *testing.T) {
	w := DefaultWeights()

	degenerate := Bounds{
		OutcomeImprovement: NewRange(10, 10),
		CostPerBeneficiary: NewRange(5, 5),
		GrowthRate:         NewRange(0, 0),
	}
	got := Compose(10, 5, Some(0), degenerate, w)
	require.True(t, got.Valid)
	require.InDelta(t, 50.0, got.Value, 1e-12)

	require.False(t, Compose(10, 5, None(), Bounds{}, w).Valid, "empty bounds give no score")

	// out of range inputs clamp
	best := Compose(1e9, -1, Some(1e9), FixedBounds(), w)
	require.InDelta(t, 100.0, best.Value, 1e-12)
	worst := Compose(-1e9, 1e9, Some(-1e9), FixedBounds(), w)
	require.InDelta(t, 0.0, worst.Value, 1e-12)

	// growth defined but no growth range observed: scored on the other two
	noGrowthRange := Bounds{
		OutcomeImprovement: NewRange(0, 100),
		CostPerBeneficiary: NewRange(0, 1000),
	}
	require.Equal(t, Compose(40, 200, None(), FixedBounds(), w), Compose(40, 200, Some(0.3), noGrowthRange, w))
}

func TestCompositeImpactScore_BoundAndDeterminism(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	bounds := Bounds{}
	records := make([]record.ProgramRecord, 500)

	for i := range records {
		records[i] = record.ProgramRecord{
			Identifier:       "p",
			TimePeriod:       "t",
			Beneficiaries:    1 + rng.Int64N(10_000),
			Cost:             rng.Float64() * 1e6,
			PreOutcomeScore:  rng.Float64()*200 - 100,
			PostOutcomeScore: rng.Float64()*200 - 100,
		}
	}
	for i, r := range records {
		var prev *record.ProgramRecord
		if i > 0 {
			prev = &records[i-1]
		}
		cpb, err := CostPerBeneficiary(r)
		require.NoError(t, err)
		bounds.Observe(OutcomeImprovement(r), cpb, GrowthRate(r, prev))
	}

	for i, r := range records {
		var prev *record.ProgramRecord
		if i > 0 {
			prev = &records[i-1]
		}

		first, err := Compute(r, prev, bounds)
		require.NoError(t, err)
		second, err := Compute(r, prev, bounds)
		require.NoError(t, err)

		require.True(t, first.CompositeImpactScore.Valid)
		require.GreaterOrEqual(t, first.CompositeImpactScore.Value, 0.0)
		require.LessOrEqual(t, first.CompositeImpactScore.Value, 100.0)
		require.Equal(t, math.Float64bits(first.CompositeImpactScore.Value), math.Float64bits(second.CompositeImpactScore.Value))
		require.Equal(t, first, second)
	}

	extremes := []record.ProgramRecord{
		{Identifier: "a", TimePeriod: "t", Beneficiaries: 10, Cost: 1000, PreOutcomeScore: 0, PostOutcomeScore: 1e308},
		{Identifier: "b", TimePeriod: "t", Beneficiaries: 10, Cost: 1000, PreOutcomeScore: 1e308, PostOutcomeScore: 0},
	}
	wide := Bounds{}
	for _, r := range extremes {
		cpb, err := CostPerBeneficiary(r)
		require.NoError(t, err)
		wide.Observe(OutcomeImprovement(r), cpb, GrowthRate(r, nil))
	}
	for i, want := range []float64{100, 0} {
		res, err := Compute(extremes[i], nil, wide)
		require.NoError(t, err)
		require.True(t, res.CompositeImpactScore.Valid)
		require.False(t, math.IsNaN(res.CompositeImpactScore.Value))
		require.GreaterOrEqual(t, res.CompositeImpactScore.Value, 0.0)
		require.LessOrEqual(t, res.CompositeImpactScore.Value, 100.0)

		outcome := wide.OutcomeImprovement.Normalize(OutcomeImprovement(extremes[i]))
		require.InDelta(t, want, outcome.Value, 1e-9)
	}
}

func TestComputeWeighted_InvalidWeights(t *testing.T) {
	tests := []Weights{
		{OutcomeImprovement: -1, CostEfficiency: 1, GrowthRate: 1},
		{OutcomeImprovement: math.NaN(), CostEfficiency: 1},
		{OutcomeImprovement: 0, CostEfficiency: 0, GrowthRate: 1},
	}

	for _, w := range tests {
		_, err := ComputeWeighted(recA, nil, FixedBounds(), w)
		require.ErrorIs(t, err, errs.ErrInvalidWeights)
	}

	require.NoError(t, DefaultWeights().Validate())
}

func TestComputeWeighted_CustomWeights(t *testing.T) {
	outcomeOnly := Weights{OutcomeImprovement: 1}

	res, err := ComputeWeighted(recB, &recA, FixedBounds(), outcomeOnly)
	require.NoError(t, err)
	require.InDelta(t, 35.0, res.CompositeImpactScore.Value, 1e-12)
	require.InDelta(t, 0.5, res.GrowthRate.Value, 0)
}
