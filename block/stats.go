package block

import (
	"encoding/binary"

	"github.com/arloliu/impact/format"
)

// Stats summarizes how much the dictionary and delta schemes save on a block.
type Stats struct {
	// DictionaryEntries is the number of distinct identifiers.
	DictionaryEntries int `json:"dictionary_entries"`
	Entries           int `json:"entries"`
	RawEntries        int `json:"raw_entries"`
	DeltaEntries      int `json:"delta_entries"`
	// IdentifierBytes is the size of all identifiers if stored once per record.
	IdentifierBytes int `json:"identifier_bytes"`
	// EncodedIdentifierBytes is the size of the dictionary plus one varint code per record.
	EncodedIdentifierBytes int `json:"encoded_identifier_bytes"`
	// BeneficiaryBytes and EncodedBeneficiaryBytes compare zigzag varint sizes of
	// the raw counts against the stored raw/delta values.
	BeneficiaryBytes        int `json:"beneficiary_bytes"`
	EncodedBeneficiaryBytes int `json:"encoded_beneficiary_bytes"`
}

// IdentifierRatio returns IdentifierBytes / EncodedIdentifierBytes, or 1 for an empty block.
func (s Stats) IdentifierRatio() float64 {
	if s.EncodedIdentifierBytes == 0 {
		return 1.0
	}

	return float64(s.IdentifierBytes) / float64(s.EncodedIdentifierBytes)
}

// BeneficiaryRatio returns BeneficiaryBytes / EncodedBeneficiaryBytes, or 1 for an empty block.
func (s Stats) BeneficiaryRatio() float64 {
	if s.EncodedBeneficiaryBytes == 0 {
		return 1.0
	}

	return float64(s.BeneficiaryBytes) / float64(s.EncodedBeneficiaryBytes)
}

// Stats computes compression statistics for b. Corrupt chains are counted as
// stored; use DecodeBlock to validate.
func (b *EncodedBlock) Stats() Stats {
	s := Stats{
		DictionaryEntries: len(b.Names),
		Entries:           len(b.Entries),
	}

	for _, name := range b.Names {
		s.EncodedIdentifierBytes += uvarintLen(uint64(len(name))) + len(name)
	}

	last := make([]int64, len(b.Names))
	for _, e := range b.Entries {
		s.EncodedIdentifierBytes += uvarintLen(uint64(e.Code))
		s.EncodedBeneficiaryBytes += varintLen(e.Beneficiaries)

		value := e.Beneficiaries
		if e.Kind == format.TypeRaw {
			s.RawEntries++
		} else {
			s.DeltaEntries++
		}
		if int(e.Code) < len(b.Names) {
			if e.Kind == format.TypeDelta {
				value += last[e.Code]
			}
			last[e.Code] = value
			s.IdentifierBytes += len(b.Names[e.Code])
		}
		s.BeneficiaryBytes += varintLen(value)
	}

	return s
}

func uvarintLen(v uint64) int {
	var buf [binary.MaxVarintLen64]byte
	return binary.PutUvarint(buf[:], v)
}

func varintLen(v int64) int {
	var buf [binary.MaxVarintLen64]byte
	return binary.PutVarint(buf[:], v)
}
