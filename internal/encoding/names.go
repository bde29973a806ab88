package encoding

import (
	"fmt"

	"github.com/arloliu/impact/errs"
)

// EncodeNames appends the dictionary names to w.
// Format: [Count: uvarint] [Len1: uvarint][Name1: UTF-8] [Len2: uvarint][Name2: UTF-8] ...
func EncodeNames(w *Writer, names []string) {
	size := MaxVarintLen
	for _, name := range names {
		size += MaxVarintLen + len(name)
	}
	w.Grow(size)

	w.Uvarint(uint64(len(names)))
	for _, name := range names {
		w.String(name)
	}
}

// DecodeNames reads a names section written by EncodeNames.
//
// Returns:
//   - []string: The decoded names in code order
//   - error: errs.ErrInvalidNamesPayload wrapping the read failure
func DecodeNames(r *Reader) ([]string, error) {
	count, err := r.Uvarint()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read name count: %w", errs.ErrInvalidNamesPayload, err)
	}
	if count > uint64(r.Remaining()) {
		return nil, fmt.Errorf("%w: name count %d exceeds payload size %d", errs.ErrInvalidNamesPayload, count, r.Remaining())
	}

	names := make([]string, count)
	for i := range names {
		name, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read name %d: %w", errs.ErrInvalidNamesPayload, i, err)
		}
		names[i] = name
	}

	return names, nil
}
