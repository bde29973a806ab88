package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	le := GetLittleEndianEngine()
	be := GetBigEndianEngine()

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le.AppendUint32(nil, 0x01020304))
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be.AppendUint32(nil, 0x01020304))

	buf := make([]byte, 8)
	le.PutUint64(buf, 42)
	require.Equal(t, uint64(42), le.Uint64(buf))
	require.NotEqual(t, uint64(42), be.Uint64(buf))
}

func TestName(t *testing.T) {
	require.Equal(t, LittleEndianName, Name(GetLittleEndianEngine()))
	require.Equal(t, BigEndianName, Name(GetBigEndianEngine()))
}
