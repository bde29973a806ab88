package encoding

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/impact/endian"
	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/internal/pool"
)

// MaxVarintLen is the maximum encoded size of a 64-bit varint.
const MaxVarintLen = binary.MaxVarintLen64

// Writer appends primitive values to a pooled buffer.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	temp   [binary.MaxVarintLen64]byte
}

// NewWriter creates a writer using engine for fixed-width values.
// Call Release when the writer's bytes are no longer needed.
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{
		buf:    pool.GetBlockBuffer(),
		engine: engine,
	}
}

// Grow reserves space for n more bytes.
func (w *Writer) Grow(n int) {
	w.buf.Grow(n)
}

// Uvarint appends v as an unsigned varint.
func (w *Writer) Uvarint(v uint64) {
	n := binary.PutUvarint(w.temp[:], v)
	w.buf.MustWrite(w.temp[:n])
}

// Varint appends v using zigzag encoding, so small negative deltas stay small.
func (w *Writer) Varint(v int64) {
	zigzag := uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
	w.Uvarint(zigzag)
}

// Byte appends one byte.
func (w *Writer) Byte(b byte) {
	w.buf.MustWriteByte(b)
}

// String appends s with a uvarint length prefix.
func (w *Writer) String(s string) {
	w.Uvarint(uint64(len(s)))
	w.buf.MustWrite([]byte(s))
}

// Float64 appends the IEEE-754 bits of v in the writer's byte order.
func (w *Writer) Float64(v float64) {
	w.buf.B = w.engine.AppendUint64(w.buf.B, math.Float64bits(v))
}

// Bytes returns the written data. The slice is valid until Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Release returns the buffer to the pool. The writer must not be used afterwards.
func (w *Writer) Release() {
	if w.buf != nil {
		pool.PutBlockBuffer(w.buf)
		w.buf = nil
	}
}

// Reader consumes primitive values from a payload.
type Reader struct {
	data   []byte
	offset int
	engine endian.EndianEngine
}

// NewReader creates a reader over data using engine for fixed-width values.
func NewReader(data []byte, engine endian.EndianEngine) *Reader {
	return &Reader{data: data, engine: engine}
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Uvarint reads an unsigned varint.
func (r *Reader) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.offset:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad uvarint at offset %d", errs.ErrTruncatedPayload, r.offset)
	}
	r.offset += n

	return v, nil
}

// Varint reads a zigzag-encoded signed varint.
func (r *Reader) Varint() (int64, error) {
	u, err := r.Uvarint()
	if err != nil {
		return 0, err
	}

	return int64(u>>1) ^ -int64(u&1), nil //nolint:gosec
}

// Byte reads one byte.
func (r *Reader) Byte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, fmt.Errorf("%w: need 1 byte at offset %d", errs.ErrTruncatedPayload, r.offset)
	}
	b := r.data[r.offset]
	r.offset++

	return b, nil
}

// String reads a uvarint length-prefixed string.
func (r *Reader) String() (string, error) {
	n, err := r.Uvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(r.Remaining()) {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d, have %d", errs.ErrTruncatedPayload, n, r.offset, r.Remaining())
	}

	s := string(r.data[r.offset : r.offset+int(n)]) //nolint:gosec
	r.offset += int(n)                               //nolint:gosec

	return s, nil
}

// Float64 reads 8 bytes as an IEEE-754 value.
func (r *Reader) Float64() (float64, error) {
	if r.Remaining() < 8 {
		return 0, fmt.Errorf("%w: need 8 bytes at offset %d, have %d", errs.ErrTruncatedPayload, r.offset, r.Remaining())
	}
	v := math.Float64frombits(r.engine.Uint64(r.data[r.offset:]))
	r.offset += 8

	return v, nil
}
