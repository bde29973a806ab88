package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor provides S2 compression, a faster Snappy extension.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
//
// Returns:
//   - S2Compressor: New S2 compressor instance
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses a block payload using S2 block encoding.
//
// Parameters:
//   - data: Uncompressed payload
//
// Returns:
//   - []byte: Compressed payload (nil if data is empty)
//   - error: Always nil
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 block.
//
// Parameters:
//   - data: Compressed payload
//
// Returns:
//   - []byte: Decompressed payload (nil if data is empty)
//   - error: Wrapped s2 error if data is not a valid S2 block
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
