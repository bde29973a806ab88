package analytics

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/metrics"
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
	recC = record.ProgramRecord{
		Identifier: "prog2", TimePeriod: "2025-Q1",
		Beneficiaries: 1000, Cost: 20000, PreOutcomeScore: 30, PostOutcomeScore: 70,
	}
)

func portfolio(programs, periods int) []record.ProgramRecord {
	out := make([]record.ProgramRecord, 0, programs*periods)
	for q := range periods {
		for p := range programs {
			out = append(out, record.ProgramRecord{
				Identifier:       fmt.Sprintf("program-%02d", p),
				TimePeriod:       fmt.Sprintf("2025-P%02d", q),
				Beneficiaries:    int64(100 + p*13 + q*(p%4)*7),
				Cost:             float64(5000 + p*250 + q*100),
				PreOutcomeScore:  float64(30 + p%9),
				PostOutcomeScore: float64(40 + (p*7+q*3)%50),
			})
		}
	}

	return out
}

func TestPredecessors(t *testing.T) {
	records := []record.ProgramRecord{recB, recC, recA}
	prev := Predecessors(records)

	require.Len(t, prev, 3)
	require.Same(t, &records[2], prev[0], "B follows A although A comes later in input")
	require.Nil(t, prev[1])
	require.Nil(t, prev[2])
}

func TestHistory(t *testing.T) {
	h := History([]record.ProgramRecord{recB, recC, recA})

	require.Len(t, h, 2)
	require.Equal(t, []record.ProgramRecord{recA, recB}, h["prog1"])
	require.Equal(t, []record.ProgramRecord{recC}, h["prog2"])
}

func TestComputeBounds(t *testing.T) {
	b := ComputeBounds([]record.ProgramRecord{recA, recB, recC})

	require.Equal(t, metrics.NewRange(33, 40), b.OutcomeImprovement)
	require.Equal(t, metrics.NewRange(20, 25000.0/300), b.CostPerBeneficiary)
	require.Equal(t, metrics.NewRange(0.5, 0.5), b.GrowthRate)

	empty := ComputeBounds(nil)
	require.False(t, empty.OutcomeImprovement.Valid)
}

func TestSummarize(t *testing.T) {
	records := []record.ProgramRecord{recA, recB, recC}

	s, err := Summarize(records)
	require.NoError(t, err)

	require.Equal(t, 2, s.TotalPrograms)
	require.Equal(t, 3, s.TotalRecords)
	require.Equal(t, int64(1500), s.TotalBeneficiaries)
	require.InDelta(t, 60000.0, s.TotalCost, 0)
	require.InDelta(t, (33.0+35.0+40.0)/3, s.AverageOutcomeImprovement, 1e-12)

	// scores against bounds computed over the three records
	bounds := ComputeBounds(records)
	scoreA, err := metrics.CompositeImpactScore(recA, nil, bounds)
	require.NoError(t, err)
	scoreB, err := metrics.CompositeImpactScore(recB, &recA, bounds)
	require.NoError(t, err)
	scoreC, err := metrics.CompositeImpactScore(recC, nil, bounds)
	require.NoError(t, err)
	require.InDelta(t, (scoreA.Value+scoreB.Value+scoreC.Value)/3, s.AverageImpactScore, 1e-9)

	// prog2 has the best outcome and the lowest cost. B has the highest cost
	// and its growth is the only one observed, so it normalizes to 50.
	require.InDelta(t, 100.0, scoreC.Value, 1e-9)
	require.InDelta(t, 0.40*(200.0/7)+0.25*50, scoreB.Value, 1e-9)

	require.Len(t, s.Ranking, 2)
	require.Equal(t, "prog2", s.Ranking[0].Identifier)
	require.Equal(t, 1, s.Ranking[0].Rank)
	require.Equal(t, "prog1", s.Ranking[1].Identifier)
	require.Equal(t, "2025-Q2", s.Ranking[1].TimePeriod)
	require.Equal(t, scoreB, s.Ranking[1].Score)
	require.InDelta(t, 0.5, s.Ranking[1].Metrics.GrowthRate.Value, 0)
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize(nil)
	require.NoError(t, err)
	require.Zero(t, s.TotalPrograms)
	require.Zero(t, s.AverageImpactScore)
	require.Empty(t, s.Ranking)
}

func TestSummarize_TiesByIdentifier(t *testing.T) {
	a := recC
	a.Identifier = "zeta"
	b := recC
	b.Identifier = "alpha"
	c := recC
	c.Identifier = "mid"

	s, err := Summarize([]record.ProgramRecord{a, b, c})
	require.NoError(t, err)

	ids := make([]string, 0, len(s.Ranking))
	for _, r := range s.Ranking {
		ids = append(ids, r.Identifier)
	}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, ids)
}

func TestSummarize_ConcurrencyIsDeterministic(t *testing.T) {
	records := portfolio(40, 6)

	want, err := Summarize(records)
	require.NoError(t, err)

	for _, n := range []int{2, 4, 16, 100} {
		got, err := Summarize(records, WithConcurrency(n))
		require.NoError(t, err)
		require.Equal(t, want, got, "concurrency %d", n)
	}
}

func TestSummarize_CacheDoesNotChangeResults(t *testing.T) {
	records := portfolio(10, 4)
	cache := metrics.NewCache(0)

	want, err := Summarize(records)
	require.NoError(t, err)

	for range 2 {
		got, err := Summarize(records, WithCache(cache), WithConcurrency(3))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.Equal(t, int64(len(records)), cache.Stats().Hits)
}

func TestSummarize_Options(t *testing.T) {
	records := []record.ProgramRecord{recA, recB, recC}

	s, err := Summarize(records, WithBounds(metrics.FixedBounds()))
	require.NoError(t, err)
	require.Equal(t, metrics.FixedBounds(), s.Bounds)
	require.InDelta(t, 58.5833333, s.Ranking[slices.IndexFunc(s.Ranking, func(r RankedProgram) bool {
		return r.Identifier == "prog1"
	})].Score.Value, 1e-6)

	s, err = Summarize(records, WithWeights(metrics.Weights{OutcomeImprovement: 1}))
	require.NoError(t, err)
	require.Equal(t, "prog2", s.Ranking[0].Identifier)

	_, err = Summarize(records, WithWeights(metrics.Weights{}))
	require.ErrorIs(t, err, errs.ErrInvalidWeights)

	_, err = Summarize(records, WithConcurrency(0))
	require.Error(t, err)

	// undefined scores rank last
	s, err = Summarize(records, WithBounds(metrics.Bounds{}))
	require.NoError(t, err)
	require.Zero(t, s.AverageImpactScore)
	for _, r := range s.Ranking {
		require.False(t, r.Score.Valid)
	}
}

func TestSummarize_InvalidRecord(t *testing.T) {
	bad := recB
	bad.Identifier = ""

	_, err := Summarize([]record.ProgramRecord{recA, bad})
	require.ErrorIs(t, err, errs.ErrInvalidRecord)
}

func TestTop(t *testing.T) {
	s, err := Summarize(portfolio(12, 2))
	require.NoError(t, err)

	top := Top(s, 5)
	require.Len(t, top, 5)
	require.Equal(t, s.Ranking[:5], top)
	for i := 1; i < len(top); i++ {
		require.GreaterOrEqual(t, top[i-1].Score.Value, top[i].Score.Value)
	}

	require.Len(t, Top(s, 100), 12)
	require.Nil(t, Top(s, 0))
}

func TestGrowthTrend(t *testing.T) {
	seq := GrowthTrend([]record.ProgramRecord{recB, recA})

	var points []TrendPoint
	for p := range seq {
		points = append(points, p)
	}
	require.Len(t, points, 2)
	require.Equal(t, "2025-Q1", points[0].TimePeriod)
	require.False(t, points[0].GrowthRate.Valid, "first period has no growth")
	require.Equal(t, int64(300), points[1].Beneficiaries)
	require.Equal(t, metrics.Some(0.5), points[1].GrowthRate)

	// restartable
	var again []TrendPoint
	for p := range seq {
		again = append(again, p)
	}
	require.Equal(t, points, again)

	// early exit
	n := 0
	for range seq {
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestGrowthTrend_DoesNotAliasInput(t *testing.T) {
	records := []record.ProgramRecord{recA, recB}
	seq := GrowthTrend(records)
	records[1].Beneficiaries = 1

	var last TrendPoint
	for p := range seq {
		last = p
	}
	require.Equal(t, int64(300), last.Beneficiaries)
}

func TestTrends(t *testing.T) {
	trends := Trends([]record.ProgramRecord{recB, recC, recA})

	require.Equal(t, []ProgramTrend{
		{Identifier: "prog2", TimePeriod: "2025-Q1", Beneficiaries: 1000, Cost: 20000, OutcomeImprovement: 40},
		{Identifier: "prog1", TimePeriod: "2025-Q1", Beneficiaries: 200, Cost: 15000, OutcomeImprovement: 33},
		{Identifier: "prog1", TimePeriod: "2025-Q2", Beneficiaries: 300, Cost: 25000, OutcomeImprovement: 35},
	}, trends)
}
