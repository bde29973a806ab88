package block

import (
	"fmt"

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

// interleaved returns n records cycling through three programs, with
// beneficiary counts that rise and fall.
func interleaved(n int) []record.ProgramRecord {
	ids := []string{"Youth Education Initiative", "Food Bank", "Clean Water Access"}
	out := make([]record.ProgramRecord, 0, n)
	for i := range n {
		swing := int64((i%5)-2) * 37
		out = append(out, record.ProgramRecord{
			Identifier:       ids[i%len(ids)],
			TimePeriod:       fmt.Sprintf("%d-Q%d", 2020+i/12, i/3%4+1),
			Beneficiaries:    int64(100+i*3) + swing,
			Cost:             1000.25 + float64(i)*17.5,
			PreOutcomeScore:  40 + float64(i%7),
			PostOutcomeScore: 55.5 + float64(i%11),
		})
	}

	return out
}
