//go:build cgo && gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

const gozstdLevel = 3

// Compress compresses a block payload with libzstd through cgo.
//
// Parameters:
//   - data: Uncompressed payload
//
// Returns:
//   - []byte: Zstd frame holding the payload
//   - error: Always nil
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, gozstdLevel), nil
}

// Decompress decompresses a zstd frame with libzstd through cgo.
//
// Parameters:
//   - data: Compressed payload
//
// Returns:
//   - []byte: Decompressed payload (nil if data is empty)
//   - error: Wrapped gozstd error if data is corrupted or not zstd
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return out, nil
}
