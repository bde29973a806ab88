// Package hash wraps xxHash64 for block checksums and cache keys.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest accumulates typed fields into one xxHash64 value.
// Strings are length-prefixed so adjacent fields cannot run together.
type Digest struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewDigest creates an empty digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// String adds a length-prefixed string.
func (h *Digest) String(s string) *Digest {
	h.Uint64(uint64(len(s)))
	_, _ = h.d.WriteString(s)

	return h
}

// Uint64 adds v in little-endian form.
func (h *Digest) Uint64(v uint64) *Digest {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])

	return h
}

// Int64 adds v.
func (h *Digest) Int64(v int64) *Digest {
	return h.Uint64(uint64(v)) //nolint:gosec
}

// Float64 adds the IEEE-754 bits of v.
func (h *Digest) Float64(v float64) *Digest {
	return h.Uint64(math.Float64bits(v))
}

// Bool adds b as one word.
func (h *Digest) Bool(b bool) *Digest {
	if b {
		return h.Uint64(1)
	}

	return h.Uint64(0)
}

// Sum64 returns the current hash value.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
