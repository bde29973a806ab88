// Package endian provides the byte order engines used by the serialized block format.
//
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so the block
// writer can both patch fixed offsets and append variable-length columns with one value:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, math.Float64bits(cost))
//
// All functions and the returned engines are safe for concurrent use.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Byte order names returned by Name.
const (
	LittleEndianName = "little"
	BigEndianName    = "big"
)

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Name returns LittleEndianName or BigEndianName for engine.
func Name(engine EndianEngine) string {
	if engine == EndianEngine(binary.BigEndian) {
		return BigEndianName
	}

	return LittleEndianName
}
