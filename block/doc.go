// Package block implements the record encoder: it turns an ordered batch of
// program records into an EncodedBlock and back without loss.
//
// Identifiers are replaced by dictionary codes, and each identifier's
// beneficiary counts become a delta chain: the first record of an identifier is
// stored raw, every later one as the difference from its predecessor. All other
// fields are kept verbatim, so decoding reproduces the input exactly.
//
// # Sessions
//
// An Encoder is a single-writer session. Appending a record to a session, or
// calling the package-level Append on a finished block, yields the same block
// as encoding the whole list in one batch:
//
//	b, _ := block.EncodeBatch(records[:n])
//	b, _ = block.Append(b, records[n])
//	// b.Equal(block.EncodeBatch(records[:n+1]))
//
// # Binary format
//
// Marshal and Unmarshal convert blocks to a self-describing binary form with a
// 32-byte header, an xxHash64 checksum and optional payload compression:
//
//	data, err := block.Marshal(b, block.WithCompression(format.CompressionZstd))
//	...
//	decoded, err := block.Unmarshal(data)
package block
