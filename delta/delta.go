// Package delta implements the beneficiary delta codec.
//
// A series of counts is stored as its first value (the base) followed by the
// successive differences between neighbours:
//
//	[200, 300, 280, 280] -> Series{Base: 200, Deltas: [100, -20, 0]}
//
// Decoding is a running sum, so Decode(Encode(s)) == s for every non-empty s,
// including shrinking series (negative deltas) and flat series (zero deltas).
package delta

import (
	"iter"

	"github.com/arloliu/impact/errs"
)

// Series is a delta-encoded sequence of integers.
type Series struct {
	Base   int64
	Deltas []int64
}

// Encode converts seq into its base and successive differences.
//
// Returns errs.ErrEmptySeries if seq is empty. A singleton yields an empty
// delta list.
func Encode(seq []int64) (Series, error) {
	if len(seq) == 0 {
		return Series{}, errs.ErrEmptySeries
	}

	deltas := make([]int64, len(seq)-1)
	for i := 1; i < len(seq); i++ {
		deltas[i-1] = seq[i] - seq[i-1]
	}

	return Series{Base: seq[0], Deltas: deltas}, nil
}

// Decode reconstructs the original sequence. The result has len(s.Deltas)+1 elements.
func Decode(s Series) []int64 {
	out := make([]int64, 0, len(s.Deltas)+1)
	for v := range s.All() {
		out = append(out, v)
	}

	return out
}

// All returns an iterator over the decoded values. The iterator is restartable.
func (s Series) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		cur := s.Base
		if !yield(cur) {
			return
		}
		for _, d := range s.Deltas {
			cur += d
			if !yield(cur) {
				return
			}
		}
	}
}

// Len returns the number of values in the series.
func (s Series) Len() int {
	return len(s.Deltas) + 1
}

// Last returns the final decoded value.
func (s Series) Last() int64 {
	last := s.Base
	for _, d := range s.Deltas {
		last += d
	}

	return last
}

// Append extends the series with v, storing its difference from the current last value.
func (s *Series) Append(v int64) {
	s.Deltas = append(s.Deltas, v-s.Last())
}

// Equal reports whether both series encode the same values.
func (s Series) Equal(other Series) bool {
	if s.Base != other.Base || len(s.Deltas) != len(other.Deltas) {
		return false
	}
	for i, d := range s.Deltas {
		if other.Deltas[i] != d {
			return false
		}
	}

	return true
}
