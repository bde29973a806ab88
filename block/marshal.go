package block

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/impact/compress"
	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/internal/encoding"
	"github.com/arloliu/impact/internal/hash"
	"github.com/arloliu/impact/internal/options"
	"github.com/arloliu/impact/section"
)

// minEntrySize is the smallest possible encoded entry: one byte each for the
// code, kind, beneficiaries and period length plus three 8-byte floats.
const minEntrySize = 4 + 3*8

// Marshal serializes b into the binary block format.
//
// The layout is a 32-byte section.BlockHeader followed by the payload, which is
// optionally compressed. The uncompressed payload holds the dictionary names and
// then one column per entry field:
//
//	names | codes (uvarint) | kinds (byte) | beneficiaries (zigzag varint) |
//	periods (uvarint length + bytes) | cost | pre score | post score (8 bytes each)
//
// The header records the xxHash64 of the uncompressed payload. Marshal rejects
// blocks whose entry chain is inconsistent.
func Marshal(b *EncodedBlock, opts ...MarshalOption) ([]byte, error) {
	config := NewMarshalConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	if err := walk(b, func(Entry, int64) {}); err != nil {
		return nil, err
	}

	header := config.header
	engine := header.Flag.GetEndianEngine()

	w := encoding.NewWriter(engine)
	defer w.Release()

	encoding.EncodeNames(w, b.Names)
	namesSize := w.Len()

	w.Grow(len(b.Entries) * (minEntrySize + 2*encoding.MaxVarintLen))
	for _, e := range b.Entries {
		w.Uvarint(uint64(e.Code))
	}
	for _, e := range b.Entries {
		w.Byte(byte(e.Kind))
	}
	for _, e := range b.Entries {
		w.Varint(e.Beneficiaries)
	}
	for _, e := range b.Entries {
		w.String(e.TimePeriod)
	}
	for _, e := range b.Entries {
		w.Float64(e.Cost)
	}
	for _, e := range b.Entries {
		w.Float64(e.PreOutcomeScore)
	}
	for _, e := range b.Entries {
		w.Float64(e.PostOutcomeScore)
	}

	raw := w.Bytes()

	codec, err := compress.GetCodec(config.Compression())
	if err != nil {
		return nil, err
	}
	payload, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compress block payload: %w", err)
	}

	if len(raw) > math.MaxUint32 || len(payload) > math.MaxUint32 || len(b.Entries) > math.MaxUint32 {
		return nil, fmt.Errorf("block too large to serialize: %d entries, %d payload bytes", len(b.Entries), len(raw))
	}

	header.EntryCount = uint32(len(b.Entries)) //nolint:gosec
	header.NameCount = uint32(len(b.Names))    //nolint:gosec
	header.PayloadSize = uint32(len(payload))  //nolint:gosec
	header.RawPayloadSize = uint32(len(raw))   //nolint:gosec
	header.NamesSize = uint32(namesSize)       //nolint:gosec
	header.Checksum = hash.Sum(raw)

	out := make([]byte, 0, section.HeaderSize+len(payload))
	out = append(out, header.Bytes()...)
	out = append(out, payload...)

	return out, nil
}

// Unmarshal parses a block produced by Marshal.
//
// Returns:
//   - header errors: errs.ErrInvalidHeaderSize, errs.ErrInvalidMagicNumber,
//     errs.ErrUnsupportedVersion, errs.ErrInvalidCompression
//   - errs.ErrTruncatedPayload if data ends before the declared payload
//   - errs.ErrChecksumMismatch if the payload does not match the header checksum
//   - errs.ErrCorruptBlock for any other structural inconsistency
func Unmarshal(data []byte) (*EncodedBlock, error) {
	header, err := section.ParseBlockHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[section.PayloadOffset:]
	switch {
	case uint64(len(payload)) < uint64(header.PayloadSize):
		return nil, fmt.Errorf("%w: payload has %d bytes, header declares %d", errs.ErrTruncatedPayload, len(payload), header.PayloadSize)
	case uint64(len(payload)) > uint64(header.PayloadSize):
		return nil, corruptf("%d trailing bytes after payload", uint64(len(payload))-uint64(header.PayloadSize))
	}

	codec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptBlock, err)
	}

	if uint64(len(raw)) != uint64(header.RawPayloadSize) {
		return nil, corruptf("raw payload size %d, header declares %d", len(raw), header.RawPayloadSize)
	}
	if sum := hash.Sum(raw); sum != header.Checksum {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, sum, header.Checksum)
	}

	b, err := decodePayload(&header, raw)
	if err != nil {
		if errors.Is(err, errs.ErrCorruptBlock) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptBlock, err)
	}

	return b, nil
}

func decodePayload(header *section.BlockHeader, raw []byte) (*EncodedBlock, error) {
	r := encoding.NewReader(raw, header.Flag.GetEndianEngine())

	names, err := encoding.DecodeNames(r)
	if err != nil {
		return nil, err
	}
	if uint64(len(names)) != uint64(header.NameCount) || uint64(r.Offset()) != uint64(header.NamesSize) {
		return nil, corruptf("names section does not match header: %d names in %d bytes", len(names), r.Offset())
	}

	count := int(header.EntryCount)
	if count > r.Remaining()/minEntrySize {
		return nil, fmt.Errorf("%w: %d entries cannot fit in %d bytes", errs.ErrTruncatedPayload, count, r.Remaining())
	}

	entries := make([]Entry, count)
	for i := range entries {
		code, err := r.Uvarint()
		if err != nil {
			return nil, err
		}
		if code > math.MaxUint32 {
			return nil, corruptf("entry %d: code %d out of range", i, code)
		}
		entries[i].Code = uint32(code)
	}
	for i := range entries {
		kind, err := r.Byte()
		if err != nil {
			return nil, err
		}
		entries[i].Kind = format.EncodingType(kind)
	}
	for i := range entries {
		if entries[i].Beneficiaries, err = r.Varint(); err != nil {
			return nil, err
		}
	}
	for i := range entries {
		if entries[i].TimePeriod, err = r.String(); err != nil {
			return nil, err
		}
	}
	for i := range entries {
		if entries[i].Cost, err = r.Float64(); err != nil {
			return nil, err
		}
	}
	for i := range entries {
		if entries[i].PreOutcomeScore, err = r.Float64(); err != nil {
			return nil, err
		}
	}
	for i := range entries {
		if entries[i].PostOutcomeScore, err = r.Float64(); err != nil {
			return nil, err
		}
	}

	if r.Remaining() != 0 {
		return nil, corruptf("%d unread payload bytes", r.Remaining())
	}

	b := &EncodedBlock{Names: names, Entries: entries}
	if err := walk(b, func(Entry, int64) {}); err != nil {
		return nil, err
	}

	return b, nil
}

// WriteTo marshals b and writes it to w.
func WriteTo(w io.Writer, b *EncodedBlock, opts ...MarshalOption) (int64, error) {
	data, err := Marshal(b, opts...)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)

	return int64(n), err
}

// ReadFrom reads exactly one serialized block from r.
func ReadFrom(r io.Reader) (*EncodedBlock, error) {
	headerBytes := make([]byte, section.HeaderSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeaderSize, err)
		}

		return nil, err
	}

	header, err := section.ParseBlockHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	data := make([]byte, section.HeaderSize+int(header.PayloadSize))
	copy(data, headerBytes)
	if _, err := io.ReadFull(r, data[section.HeaderSize:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", errs.ErrTruncatedPayload, err)
		}

		return nil, err
	}

	return Unmarshal(data)
}
