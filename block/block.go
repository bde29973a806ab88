package block

import (
	"math"
	"slices"

	"github.com/arloliu/impact/delta"
	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/format"
)

// Entry is the encoded form of one program record.
//
// Beneficiaries holds the raw count when Kind is format.TypeRaw (the first
// record of its identifier) and the difference from the previous record of the
// same identifier when Kind is format.TypeDelta. All other fields are stored verbatim.
type Entry struct {
	Code             uint32
	Kind             format.EncodingType
	Beneficiaries    int64
	TimePeriod       string
	Cost             float64
	PreOutcomeScore  float64
	PostOutcomeScore float64
}

// EncodedBlock is the compact, exactly reversible representation of an ordered
// batch of program records.
//
// Names is the dictionary in code order: code i decodes to Names[i]. Entries
// keeps the original interleaved order of all records across identifiers.
type EncodedBlock struct {
	Names   []string
	Entries []Entry
}

// Len returns the number of encoded records.
func (b *EncodedBlock) Len() int {
	return len(b.Entries)
}

// Identifiers returns the identifiers in code order.
func (b *EncodedBlock) Identifiers() []string {
	return slices.Clone(b.Names)
}

// Clone returns a deep copy of the block.
func (b *EncodedBlock) Clone() *EncodedBlock {
	return &EncodedBlock{
		Names:   slices.Clone(b.Names),
		Entries: slices.Clone(b.Entries),
	}
}

// Equal reports whether both blocks hold the same dictionary and entries.
// Decimal fields are compared bit for bit.
func (b *EncodedBlock) Equal(other *EncodedBlock) bool {
	if b == nil || other == nil {
		return b == other
	}

	if !slices.Equal(b.Names, other.Names) {
		return false
	}

	return slices.EqualFunc(b.Entries, other.Entries, func(x, y Entry) bool {
		return x.Code == y.Code &&
			x.Kind == y.Kind &&
			x.Beneficiaries == y.Beneficiaries &&
			x.TimePeriod == y.TimePeriod &&
			math.Float64bits(x.Cost) == math.Float64bits(y.Cost) &&
			math.Float64bits(x.PreOutcomeScore) == math.Float64bits(y.PreOutcomeScore) &&
			math.Float64bits(x.PostOutcomeScore) == math.Float64bits(y.PostOutcomeScore)
	})
}

// Series returns the delta series of beneficiary counts for identifier, in the
// order its records appear in the block.
//
// Returns errs.ErrUnknownIdentifier if identifier is not in the dictionary, or
// errs.ErrCorruptBlock if its entries do not start with a raw value.
func (b *EncodedBlock) Series(identifier string) (delta.Series, error) {
	code := slices.Index(b.Names, identifier)
	if code < 0 {
		return delta.Series{}, errs.ErrUnknownIdentifier
	}

	var (
		s    delta.Series
		seen bool
	)
	for i, e := range b.Entries {
		if e.Code != uint32(code) { //nolint:gosec
			continue
		}

		switch {
		case e.Kind == format.TypeRaw && !seen:
			s.Base = e.Beneficiaries
			seen = true
		case e.Kind == format.TypeDelta && seen:
			s.Deltas = append(s.Deltas, e.Beneficiaries)
		default:
			return delta.Series{}, corruptf("entry %d: unexpected %s entry for code %d", i, e.Kind, code)
		}
	}

	if !seen {
		return delta.Series{}, corruptf("identifier %q has no entries", identifier)
	}

	return s, nil
}
