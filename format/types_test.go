package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodingType_String(t *testing.T) {
	require.Equal(t, "Raw", TypeRaw.String())
	require.Equal(t, "Delta", TypeDelta.String())
	require.Equal(t, "Unknown", EncodingType(0x9).String())
	require.True(t, TypeDelta.Valid())
	require.False(t, EncodingType(0).Valid())
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"none": CompressionNone,
		"":     CompressionNone,
		"zstd": CompressionZstd,
		"S2":   CompressionS2,
		"lz4":  CompressionLZ4,
	} {
		got, ok := ParseCompression(name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}

	_, ok := ParseCompression("brotli")
	require.False(t, ok)
	require.Equal(t, "Unknown", CompressionType(0x7).String())
}
