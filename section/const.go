package section

const (
	// Bit masks
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	ReservedBitsMask = 0x000E // Mask for reserved bits (bits 1-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicBlockV1Opt is the magic number of the encoded program block format.
	MagicBlockV1Opt = 0xEC10

	// FormatVersion is the current payload layout version.
	FormatVersion = 1
)

// offset and section sizes in the block file
const (
	HeaderSize    = 32         // fixed header size in bytes
	PayloadOffset = HeaderSize // byte offset where the payload starts
)
