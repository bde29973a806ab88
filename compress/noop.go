package compress

// NoOpCompressor stores payloads uncompressed. It backs CompressionNone.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-op compressor.
//
// Returns:
//   - NoOpCompressor: New no-op compressor instance
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as-is. The result shares memory with the input.
//
// Parameters:
//   - data: Uncompressed payload (returned as-is)
//
// Returns:
//   - []byte: Same slice as data
//   - error: Always nil
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data as-is. The result shares memory with the input.
//
// Parameters:
//   - data: Stored payload (returned as-is)
//
// Returns:
//   - []byte: Same slice as data
//   - error: Always nil
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
