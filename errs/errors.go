// Package errs defines the sentinel errors and structured error values shared by
// the impact packages.
//
// Every structured error unwraps to one of the sentinels, so callers can always
// classify a failure with errors.Is and inspect details with errors.As:
//
//	_, err := block.EncodeBatch(records)
//	var invalid *errs.InvalidRecordError
//	if errors.As(err, &invalid) {
//	    fmt.Println(invalid.Index, invalid.Field)
//	}
package errs

import (
	"errors"
	"fmt"
)

// Record and codec errors.
var (
	// ErrInvalidRecord is returned when a record violates a structural invariant.
	ErrInvalidRecord = errors.New("invalid program record")
	// ErrEmptySeries is returned when delta-encoding an empty sequence.
	ErrEmptySeries = errors.New("empty beneficiary series")
	// ErrUnknownCode is returned when decoding a dictionary code that was never assigned.
	ErrUnknownCode = errors.New("unknown dictionary code")
	// ErrDivisionByZero is returned when a metric would divide by a zero beneficiary count.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrCorruptBlock is returned when an encoded block is internally inconsistent.
	ErrCorruptBlock = errors.New("corrupt encoded block")
	// ErrInvalidDictionary is returned when a dictionary cannot be rebuilt from its names.
	ErrInvalidDictionary = errors.New("invalid dictionary")
	// ErrUnknownIdentifier is returned when an identifier is not present in a block.
	ErrUnknownIdentifier = errors.New("unknown identifier")
	// ErrInvalidWeights is returned when composite score weights cannot be applied.
	ErrInvalidWeights = errors.New("invalid metric weights")
)

// Binary format errors.
var (
	ErrInvalidHeaderSize   = errors.New("invalid header size")
	ErrInvalidMagicNumber  = errors.New("invalid magic number")
	ErrUnsupportedVersion  = errors.New("unsupported block format version")
	ErrInvalidCompression  = errors.New("invalid compression type")
	ErrChecksumMismatch    = errors.New("payload checksum mismatch")
	ErrTruncatedPayload    = errors.New("truncated payload")
	ErrInvalidNamesPayload = errors.New("invalid identifier names payload")
)

// Forecast and storage errors.
var (
	// ErrInsufficientData is returned when a fit needs more points than provided.
	ErrInsufficientData = errors.New("insufficient data points")
	// ErrBlockNotFound is returned by stores when no block matches the lookup.
	ErrBlockNotFound = errors.New("block not found")
)

// InvalidRecordError reports the record and field that failed structural validation.
type InvalidRecordError struct {
	// Index is the position of the record within its batch, or -1 for a single record.
	Index int
	// Field is the offending field name, e.g. "beneficiaries".
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s %s", ErrInvalidRecord, e.Field, e.Reason)
	}

	return fmt.Sprintf("%s: record %d: %s %s", ErrInvalidRecord, e.Index, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidRecord.
func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}

// AtIndex returns a copy of the error bound to the given batch position.
func (e *InvalidRecordError) AtIndex(index int) *InvalidRecordError {
	c := *e
	c.Index = index

	return &c
}

// UnknownCodeError reports a dictionary code absent from the table.
type UnknownCodeError struct {
	Code uint32
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnknownCode, e.Code)
}

// Unwrap returns ErrUnknownCode.
func (e *UnknownCodeError) Unwrap() error {
	return ErrUnknownCode
}
