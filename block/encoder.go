package block

import (
	"fmt"
	"slices"

	"github.com/arloliu/impact/dictionary"
	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/record"
)

// Encoder is one encoding session. It owns the dictionary table, the last known
// beneficiary count per identifier and the entries encoded so far.
//
// An Encoder is not safe for concurrent use: callers must ensure a single
// writer per session.
type Encoder struct {
	dict    *dictionary.Table
	last    []int64 // indexed by code
	entries []Entry
}

// NewEncoder creates an empty encoding session.
func NewEncoder() *Encoder {
	return &Encoder{
		dict: dictionary.New(),
	}
}

// ResumeEncoder creates a session positioned at the end of b, so that further
// records continue its dictionary and delta chains.
//
// The block is decoded to rebuild the session state; a nil or corrupt block is
// rejected with errs.ErrCorruptBlock.
func ResumeEncoder(b *EncodedBlock) (*Encoder, error) {
	if b == nil {
		return nil, corruptf("nil block")
	}

	dict, err := dictionary.FromNames(b.Names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptBlock, err)
	}

	last, err := replay(b)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		dict:    dict,
		last:    last,
		entries: slices.Clone(b.Entries),
	}, nil
}

// Append encodes one record at the end of the session.
//
// Returns *errs.InvalidRecordError without changing the session if the record
// violates a structural invariant.
func (e *Encoder) Append(r record.ProgramRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	e.add(r)

	return nil
}

// EncodeBatch encodes records in order. All records are validated before any is
// encoded, so a failing batch leaves the session untouched.
func (e *Encoder) EncodeBatch(records []record.ProgramRecord) error {
	if err := record.ValidateAll(records); err != nil {
		return err
	}

	e.entries = slices.Grow(e.entries, len(records))
	for _, r := range records {
		e.add(r)
	}

	return nil
}

func (e *Encoder) add(r record.ProgramRecord) {
	entry := Entry{
		TimePeriod:       r.TimePeriod,
		Cost:             r.Cost,
		PreOutcomeScore:  r.PreOutcomeScore,
		PostOutcomeScore: r.PostOutcomeScore,
	}

	code, known := e.dict.Lookup(r.Identifier)
	if known {
		entry.Kind = format.TypeDelta
		entry.Beneficiaries = r.Beneficiaries - e.last[code]
	} else {
		code = e.dict.Encode(r.Identifier)
		e.last = append(e.last, 0)
		entry.Kind = format.TypeRaw
		entry.Beneficiaries = r.Beneficiaries
	}

	entry.Code = code
	e.last[code] = r.Beneficiaries
	e.entries = append(e.entries, entry)
}

// Block returns a snapshot of the encoded block. Later calls to Append do not
// affect the returned value.
func (e *Encoder) Block() *EncodedBlock {
	return &EncodedBlock{
		Names:   slices.Clone(e.dict.Names()),
		Entries: slices.Clone(e.entries),
	}
}

// Len returns the number of encoded records.
func (e *Encoder) Len() int {
	return len(e.entries)
}

// Dictionary returns the session's dictionary table. It must not be mutated.
func (e *Encoder) Dictionary() *dictionary.Table {
	return e.dict
}

// Reset clears the session for reuse.
func (e *Encoder) Reset() {
	e.dict.Reset()
	e.last = e.last[:0]
	e.entries = e.entries[:0]
}

// EncodeBatch encodes an ordered batch of records into a new block.
//
// Returns *errs.InvalidRecordError (with the offending record index) if any
// record violates a structural invariant.
func EncodeBatch(records []record.ProgramRecord) (*EncodedBlock, error) {
	enc := NewEncoder()
	if err := enc.EncodeBatch(records); err != nil {
		return nil, err
	}

	return enc.Block(), nil
}

// Append returns a new block equal to encoding the records of b followed by r.
// b itself is not modified.
//
// An identifier already in the dictionary gets a delta entry relative to its
// last decoded count; a new identifier gets the next code and a raw entry.
func Append(b *EncodedBlock, r record.ProgramRecord) (*EncodedBlock, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	enc, err := ResumeEncoder(b)
	if err != nil {
		return nil, err
	}

	enc.add(r)

	return enc.Block(), nil
}
