package block

import (
	"fmt"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/record"
)

// DecodeBlock reconstructs the exact ordered sequence of records that produced b.
//
// Returns:
//   - *errs.UnknownCodeError if an entry references a code outside the dictionary
//   - errs.ErrCorruptBlock if b is nil or the raw/delta chain of an identifier is inconsistent
func DecodeBlock(b *EncodedBlock) ([]record.ProgramRecord, error) {
	if b == nil {
		return nil, corruptf("nil block")
	}

	records := make([]record.ProgramRecord, 0, len(b.Entries))

	err := walk(b, func(e Entry, beneficiaries int64) {
		records = append(records, record.ProgramRecord{
			Identifier:       b.Names[e.Code],
			TimePeriod:       e.TimePeriod,
			Beneficiaries:    beneficiaries,
			Cost:             e.Cost,
			PreOutcomeScore:  e.PreOutcomeScore,
			PostOutcomeScore: e.PostOutcomeScore,
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// replay returns the last decoded beneficiary count per code.
func replay(b *EncodedBlock) ([]int64, error) {
	last := make([]int64, len(b.Names))
	err := walk(b, func(e Entry, beneficiaries int64) {
		last[e.Code] = beneficiaries
	})
	if err != nil {
		return nil, err
	}

	return last, nil
}

// walk validates the entry chain and calls fn with each entry and its decoded count.
// Every dictionary name must own a raw entry.
func walk(b *EncodedBlock, fn func(e Entry, beneficiaries int64)) error {
	if b == nil {
		return corruptf("nil block")
	}

	last := make([]int64, len(b.Names))
	seen := make([]bool, len(b.Names))

	for i, e := range b.Entries {
		if int64(e.Code) >= int64(len(b.Names)) {
			return fmt.Errorf("entry %d: %w", i, &errs.UnknownCodeError{Code: e.Code})
		}

		var value int64
		switch e.Kind {
		case format.TypeRaw:
			if seen[e.Code] {
				return corruptf("entry %d: repeated raw value for code %d", i, e.Code)
			}
			seen[e.Code] = true
			value = e.Beneficiaries
		case format.TypeDelta:
			if !seen[e.Code] {
				return corruptf("entry %d: delta before raw value for code %d", i, e.Code)
			}
			value = last[e.Code] + e.Beneficiaries
		default:
			return corruptf("entry %d: invalid entry kind %d", i, e.Kind)
		}

		last[e.Code] = value
		fn(e, value)
	}

	for code, ok := range seen {
		if !ok {
			return corruptf("code %d (%q) has no entries", code, b.Names[code])
		}
	}

	return nil
}

func corruptf(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrCorruptBlock, fmt.Sprintf(msg, args...))
}
