// Package section defines the fixed-size binary structures of a serialized
// program block.
//
// # Block Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	│  - Options (2 bytes): magic number + endianness bit     │
//	│  - Compression (1 byte), Version (1 byte)               │
//	│  - EntryCount, NameCount (4 bytes each)                 │
//	│  - PayloadSize, RawPayloadSize, NamesSize (4 bytes each)│
//	│  - Checksum (8 bytes): xxHash64 of the raw payload      │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload (PayloadSize bytes, optionally compressed)      │
//	│  - dictionary names                                     │
//	│  - codes, kinds, beneficiaries, time periods            │
//	│  - cost, pre score, post score (8 bytes each)           │
//	└─────────────────────────────────────────────────────────┘
//
// The Options field is always stored little-endian so the endianness bit can be
// read before the rest of the header; all other multi-byte fields use the byte
// order selected by that bit.
package section
