package analytics

import (
	"cmp"
	"slices"

	"github.com/arloliu/impact/metrics"
	"github.com/arloliu/impact/record"
)

// chains groups record indices by identifier. Groups appear in order of first
// appearance; indices within a group are stably ordered by time period.
func chains(records []record.ProgramRecord) [][]int {
	pos := make(map[string]int)
	var groups [][]int

	for i, r := range records {
		g, ok := pos[r.Identifier]
		if !ok {
			g = len(groups)
			pos[r.Identifier] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}

	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b int) int {
			return cmp.Compare(records[a].TimePeriod, records[b].TimePeriod)
		})
	}

	return groups
}

// Predecessors returns, for each record, a pointer to the chronologically prior
// record of the same identifier within records, or nil for the first one.
// Records sharing an identifier and period are ordered by input position.
func Predecessors(records []record.ProgramRecord) []*record.ProgramRecord {
	prev := make([]*record.ProgramRecord, len(records))
	for _, g := range chains(records) {
		for k := 1; k < len(g); k++ {
			prev[g[k]] = &records[g[k-1]]
		}
	}

	return prev
}

// History returns the records of each identifier in time period order.
func History(records []record.ProgramRecord) map[string][]record.ProgramRecord {
	out := make(map[string][]record.ProgramRecord)
	for _, g := range chains(records) {
		h := make([]record.ProgramRecord, len(g))
		for k, i := range g {
			h[k] = records[i]
		}
		out[h[0].Identifier] = h
	}

	return out
}

// ComputeBounds returns the min-max range of every composite component across
// records, each linked to its predecessor. Records without beneficiaries are skipped.
func ComputeBounds(records []record.ProgramRecord) metrics.Bounds {
	var b metrics.Bounds
	prev := Predecessors(records)

	for i, r := range records {
		cpb, err := metrics.CostPerBeneficiary(r)
		if err != nil {
			continue
		}
		b.Observe(metrics.OutcomeImprovement(r), cpb, metrics.GrowthRate(r, prev[i]))
	}

	return b
}
