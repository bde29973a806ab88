// Package compress provides the payload codecs applied to serialized program blocks.
//
// A block payload is the column section written by the block marshaller: the
// identifier dictionary followed by interleaved entries. Names and period labels
// repeat heavily across blocks, so general-purpose compressors shrink payloads well.
//
// Supported algorithms:
//   - None: payload stored as-is
//   - Zstd: best ratio, klauspost/compress by default or valyala/gozstd with
//     the "gozstd" build tag and cgo enabled
//   - S2: fast Snappy-compatible compression from klauspost/compress
//   - LZ4: fastest decompression, pierrec/lz4 block format
//
// Use GetCodec to obtain a shared, concurrency-safe codec:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	compressed, err := codec.Compress(payload)
package compress
