package section

import (
	"github.com/arloliu/impact/errs"
)

// BlockHeader represents the fixed-size header at the start of a serialized block.
type BlockHeader struct {
	// Flag is a packed field for options, magic number and compression.
	Flag BlockFlag // byte offset 0-2
	// Version is the payload layout version.
	Version uint8 // byte offset 3
	// EntryCount is the number of encoded records.
	EntryCount uint32 // byte offset 4-7
	// NameCount is the number of dictionary identifiers.
	NameCount uint32 // byte offset 8-11
	// PayloadSize is the stored (possibly compressed) payload size in bytes.
	PayloadSize uint32 // byte offset 12-15
	// RawPayloadSize is the payload size before compression.
	RawPayloadSize uint32 // byte offset 16-19
	// NamesSize is the size of the dictionary section at the start of the raw payload.
	NamesSize uint32 // byte offset 20-23
	// Checksum is the xxHash64 of the raw payload.
	Checksum uint64 // byte offset 24-31
}

// NewBlockHeader creates a header with the default flag and current version.
func NewBlockHeader() *BlockHeader {
	return &BlockHeader{
		Flag:    NewBlockFlag(),
		Version: FormatVersion,
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, flag validation errors,
//     or ErrUnsupportedVersion
func (h *BlockHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian so the endianness bit can be read first
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.CompressionType = data[2]
	h.Version = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}
	if h.Version != FormatVersion {
		return errs.ErrUnsupportedVersion
	}

	engine := h.Flag.GetEndianEngine()
	h.EntryCount = engine.Uint32(data[4:8])
	h.NameCount = engine.Uint32(data[8:12])
	h.PayloadSize = engine.Uint32(data[12:16])
	h.RawPayloadSize = engine.Uint32(data[16:20])
	h.NamesSize = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	return nil
}

// Bytes serializes the header into a 32-byte slice.
func (h *BlockHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.CompressionType
	b[3] = h.Version

	engine := h.Flag.GetEndianEngine()
	engine.PutUint32(b[4:8], h.EntryCount)
	engine.PutUint32(b[8:12], h.NameCount)
	engine.PutUint32(b[12:16], h.PayloadSize)
	engine.PutUint32(b[16:20], h.RawPayloadSize)
	engine.PutUint32(b[20:24], h.NamesSize)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// ParseBlockHeader parses a BlockHeader from the start of data.
//
// Returns ErrInvalidHeaderSize if data is shorter than HeaderSize.
func ParseBlockHeader(data []byte) (BlockHeader, error) {
	if len(data) < HeaderSize {
		return BlockHeader{}, errs.ErrInvalidHeaderSize
	}

	h := BlockHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return BlockHeader{}, err
	}

	return h, nil
}
