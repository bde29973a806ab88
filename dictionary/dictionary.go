// Package dictionary implements the identifier dictionary codec: a bidirectional
// mapping between repeated program identifiers and compact integer codes.
//
// Codes are assigned in first-seen order starting at 0, so the code of an
// identifier is also its position in Names. A Table is owned by one encoding
// session and is not safe for concurrent mutation.
package dictionary

import (
	"fmt"

	"github.com/arloliu/impact/errs"
)

// Table maps identifiers to codes and back.
type Table struct {
	codes map[string]uint32 // identifier → code
	names []string          // code → identifier
}

// New creates an empty table.
func New() *Table {
	return &Table{
		codes: make(map[string]uint32),
		names: make([]string, 0),
	}
}

// FromNames rebuilds a table whose code i maps to names[i].
//
// Returns errs.ErrInvalidDictionary if a name is empty or appears twice.
func FromNames(names []string) (*Table, error) {
	t := &Table{
		codes: make(map[string]uint32, len(names)),
		names: make([]string, 0, len(names)),
	}

	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty identifier at code %d", errs.ErrInvalidDictionary, i)
		}
		if _, exists := t.codes[name]; exists {
			return nil, fmt.Errorf("%w: duplicate identifier %q at code %d", errs.ErrInvalidDictionary, name, i)
		}
		t.codes[name] = uint32(i) //nolint:gosec
		t.names = append(t.names, name)
	}

	return t, nil
}

// Encode returns the code of identifier, registering it with the next unused
// code if it has not been seen before.
func (t *Table) Encode(identifier string) uint32 {
	if code, ok := t.codes[identifier]; ok {
		return code
	}

	code := uint32(len(t.names)) //nolint:gosec
	t.codes[identifier] = code
	t.names = append(t.names, identifier)

	return code
}

// Lookup returns the code of identifier without registering it.
func (t *Table) Lookup(identifier string) (uint32, bool) {
	code, ok := t.codes[identifier]
	return code, ok
}

// Decode returns the identifier assigned to code.
//
// Returns *errs.UnknownCodeError if the code was never assigned.
func (t *Table) Decode(code uint32) (string, error) {
	if int64(code) >= int64(len(t.names)) {
		return "", &errs.UnknownCodeError{Code: code}
	}

	return t.names[code], nil
}

// Len returns the number of registered identifiers.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns the identifiers in code order. The slice must not be modified.
func (t *Table) Names() []string {
	return t.names
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		codes: make(map[string]uint32, len(t.codes)),
		names: make([]string, len(t.names)),
	}
	copy(c.names, t.names)
	for k, v := range t.codes {
		c.codes[k] = v
	}

	return c
}

// Merge registers every identifier of other into t and returns, for each code of
// other, the code it has in t. Identifiers already present keep their code.
func (t *Table) Merge(other *Table) map[uint32]uint32 {
	remap := make(map[uint32]uint32, other.Len())
	for code, name := range other.names {
		remap[uint32(code)] = t.Encode(name) //nolint:gosec
	}

	return remap
}

// Equal reports whether both tables assign the same codes.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i, name := range t.names {
		if other.names[i] != name {
			return false
		}
	}

	return true
}

// Reset clears the table, keeping allocated capacity for reuse.
func (t *Table) Reset() {
	for k := range t.codes {
		delete(t.codes, k)
	}
	t.names = t.names[:0]
}
