package analytics

import (
	"cmp"
	"slices"
	"sync"

	"github.com/arloliu/impact/internal/options"
	"github.com/arloliu/impact/metrics"
	"github.com/arloliu/impact/record"
)

// RankedProgram is one program's position in a ranking.
type RankedProgram struct {
	Rank       int              `json:"rank"`
	Identifier string           `json:"identifier"`
	TimePeriod string           `json:"time_period"`
	Score      metrics.Optional `json:"score"`
	Metrics    metrics.Result   `json:"metrics"`
}

// Summary aggregates a record set.
type Summary struct {
	// TotalPrograms is the number of distinct identifiers.
	TotalPrograms      int     `json:"total_programs"`
	TotalRecords       int     `json:"total_records"`
	TotalBeneficiaries int64   `json:"total_beneficiaries"`
	TotalCost          float64 `json:"total_cost"`
	// AverageImpactScore averages the defined composite scores of all records.
	AverageImpactScore        float64 `json:"average_impact_score"`
	AverageOutcomeImprovement float64 `json:"average_outcome_improvement"`
	// Bounds are the normalization ranges every score was computed against.
	Bounds metrics.Bounds `json:"-"`
	// Ranking orders programs by the score of their latest record, descending,
	// with ties broken by ascending identifier. Undefined scores rank last.
	Ranking []RankedProgram `json:"ranking"`
}

// Summarize scores every record and aggregates the results.
//
// Returns *errs.InvalidRecordError if any record violates a structural
// invariant, or an option error.
func Summarize(records []record.ProgramRecord, opts ...Option) (Summary, error) {
	config := NewConfig()
	if err := options.Apply(config, opts...); err != nil {
		return Summary{}, err
	}

	if err := record.ValidateAll(records); err != nil {
		return Summary{}, err
	}

	bounds := ComputeBounds(records)
	if config.bounds != nil {
		bounds = *config.bounds
	}

	groups := chains(records)
	results, err := scoreAll(records, groups, bounds, config)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		TotalPrograms: len(groups),
		TotalRecords:  len(records),
		Bounds:        bounds,
		Ranking:       make([]RankedProgram, 0, len(groups)),
	}

	var scoreSum, outcomeSum float64
	scored := 0
	for i, r := range records {
		s.TotalBeneficiaries += r.Beneficiaries
		s.TotalCost += r.Cost
		outcomeSum += results[i].OutcomeImprovement
		if score, ok := results[i].CompositeImpactScore.Get(); ok {
			scoreSum += score
			scored++
		}
	}
	if len(records) > 0 {
		s.AverageOutcomeImprovement = outcomeSum / float64(len(records))
	}
	if scored > 0 {
		s.AverageImpactScore = scoreSum / float64(scored)
	}

	for _, g := range groups {
		latest := g[len(g)-1]
		s.Ranking = append(s.Ranking, RankedProgram{
			Identifier: records[latest].Identifier,
			TimePeriod: records[latest].TimePeriod,
			Score:      results[latest].CompositeImpactScore,
			Metrics:    results[latest],
		})
	}
	slices.SortFunc(s.Ranking, compareRanked)
	for i := range s.Ranking {
		s.Ranking[i].Rank = i + 1
	}

	return s, nil
}

// Top returns the first n entries of the summary's ranking.
func Top(s Summary, n int) []RankedProgram {
	if n <= 0 {
		return nil
	}

	return slices.Clone(s.Ranking[:min(n, len(s.Ranking))])
}

func compareRanked(a, b RankedProgram) int {
	switch {
	case a.Score.Valid && !b.Score.Valid:
		return -1
	case !a.Score.Valid && b.Score.Valid:
		return 1
	case a.Score.Valid && a.Score.Value != b.Score.Value:
		return cmp.Compare(b.Score.Value, a.Score.Value)
	}

	return cmp.Compare(a.Identifier, b.Identifier)
}

// scoreAll computes the metrics of every record. Identifier groups are
// distributed over config.concurrency workers; each worker writes only the
// result slots of its own groups.
func scoreAll(records []record.ProgramRecord, groups [][]int, bounds metrics.Bounds, config *Config) ([]metrics.Result, error) {
	results := make([]metrics.Result, len(records))
	state := &workerState{}

	scoreGroup := func(g []int) {
		var prev *record.ProgramRecord
		for _, i := range g {
			res, err := computeOne(records[i], prev, bounds, config)
			if err != nil {
				state.setError(err)
				return
			}
			results[i] = res
			prev = &records[i]
		}
	}

	numWorkers := min(config.concurrency, len(groups))
	if numWorkers <= 1 {
		for _, g := range groups {
			scoreGroup(g)
		}

		return results, state.firstErr
	}

	groupChan := make(chan []int, numWorkers)

	var wg sync.WaitGroup

	wg.Add(numWorkers)

	for range numWorkers {
		go func() {
			defer wg.Done()

			for g := range groupChan {
				scoreGroup(g)
			}
		}()
	}

	for _, g := range groups {
		groupChan <- g
	}

	close(groupChan)
	wg.Wait()

	return results, state.firstErr
}

func computeOne(r record.ProgramRecord, prev *record.ProgramRecord, bounds metrics.Bounds, config *Config) (metrics.Result, error) {
	if config.cache != nil {
		return config.cache.Compute(r, prev, bounds, config.weights)
	}

	return metrics.ComputeWeighted(r, prev, bounds, config.weights)
}

type workerState struct {
	mu       sync.Mutex
	firstErr error
}

func (s *workerState) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.firstErr == nil {
		s.firstErr = err
	}
}
