package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/record"
	"github.com/arloliu/impact/section"
)

var allCompressions = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func TestMarshal_RoundTrip(t *testing.T) {
	b, err := EncodeBatch(interleaved(120))
	require.NoError(t, err)

	for _, ct := range allCompressions {
		for _, endianOpt := range []MarshalOption{WithLittleEndian(), WithBigEndian()} {
			data, err := Marshal(b, WithCompression(ct), endianOpt)
			require.NoError(t, err)

			header, err := section.ParseBlockHeader(data)
			require.NoError(t, err)
			require.Equal(t, ct, header.Flag.Compression())
			require.Equal(t, uint32(120), header.EntryCount)
			require.Equal(t, uint32(3), header.NameCount)

			decoded, err := Unmarshal(data)
			require.NoError(t, err)
			require.True(t, b.Equal(decoded), "compression %s", ct)
		}
	}
}

func TestMarshal_DefaultsAndEndianBit(t *testing.T) {
	b, err := EncodeBatch([]record.ProgramRecord{recA, recB})
	require.NoError(t, err)

	data, err := Marshal(b)
	require.NoError(t, err)
	require.Equal(t, byte(format.CompressionNone), data[2])
	require.Zero(t, data[0]&section.EndiannessMask)

	data, err = Marshal(b, WithBigEndian())
	require.NoError(t, err)
	require.Equal(t, byte(section.EndiannessMask), data[0]&section.EndiannessMask)

	records, err := func() ([]record.ProgramRecord, error) {
		decoded, err := Unmarshal(data)
		if err != nil {
			return nil, err
		}

		return DecodeBlock(decoded)
	}()
	require.NoError(t, err)
	require.Equal(t, []record.ProgramRecord{recA, recB}, records)
}

func TestMarshal_EmptyBlock(t *testing.T) {
	data, err := Marshal(&EncodedBlock{}, WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Zero(t, decoded.Len())
	require.Empty(t, decoded.Names)
}

func TestMarshal_Rejects(t *testing.T) {
	b, err := EncodeBatch([]record.ProgramRecord{recA})
	require.NoError(t, err)

	_, err = Marshal(b, WithCompression(format.CompressionType(0x42)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	corrupt := &EncodedBlock{
		Names:   []string{"prog1"},
		Entries: []Entry{{Code: 0, Kind: format.TypeDelta, Beneficiaries: 1}},
	}
	_, err = Marshal(corrupt)
	require.ErrorIs(t, err, errs.ErrCorruptBlock)
}

func TestUnmarshal_Corruption(t *testing.T) {
	b, err := EncodeBatch(interleaved(12))
	require.NoError(t, err)
	data, err := Marshal(b)
	require.NoError(t, err)

	mutate := func(fn func(d []byte) []byte) []byte {
		return fn(bytes.Clone(data))
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "short header",
			data: data[:section.HeaderSize-1],
			want: errs.ErrInvalidHeaderSize,
		},
		{
			name: "bad magic",
			data: mutate(func(d []byte) []byte { d[1] ^= 0xFF; return d }),
			want: errs.ErrInvalidMagicNumber,
		},
		{
			name: "reserved bits",
			data: mutate(func(d []byte) []byte { d[0] |= 0x02; return d }),
			want: errs.ErrInvalidMagicNumber,
		},
		{
			name: "unknown compression",
			data: mutate(func(d []byte) []byte { d[2] = 0x09; return d }),
			want: errs.ErrInvalidCompression,
		},
		{
			name: "unsupported version",
			data: mutate(func(d []byte) []byte { d[3] = 7; return d }),
			want: errs.ErrUnsupportedVersion,
		},
		{
			name: "truncated payload",
			data: data[:len(data)-1],
			want: errs.ErrTruncatedPayload,
		},
		{
			name: "trailing bytes",
			data: append(bytes.Clone(data), 0),
			want: errs.ErrCorruptBlock,
		},
		{
			name: "flipped payload byte",
			data: mutate(func(d []byte) []byte { d[len(d)-1] ^= 0x01; return d }),
			want: errs.ErrChecksumMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnmarshal_HeaderPayloadMismatch(t *testing.T) {
	b, err := EncodeBatch(interleaved(12))
	require.NoError(t, err)
	data, err := Marshal(b)
	require.NoError(t, err)

	header, err := section.ParseBlockHeader(data)
	require.NoError(t, err)
	header.EntryCount++
	copy(data, header.Bytes())

	_, err = Unmarshal(data)
	require.ErrorIs(t, err, errs.ErrCorruptBlock)

	header.EntryCount--
	header.NameCount = 2
	copy(data, header.Bytes())

	_, err = Unmarshal(data)
	require.ErrorIs(t, err, errs.ErrCorruptBlock)
}

func TestWriteToReadFrom(t *testing.T) {
	first, err := EncodeBatch(interleaved(30))
	require.NoError(t, err)
	second, err := EncodeBatch([]record.ProgramRecord{recA, recB})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := WriteTo(&buf, first, WithCompression(format.CompressionS2))
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	_, err = WriteTo(&buf, second, WithCompression(format.CompressionLZ4), WithBigEndian())
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	require.True(t, first.Equal(got))

	got, err = ReadFrom(&buf)
	require.NoError(t, err)
	require.True(t, second.Equal(got))

	_, err = ReadFrom(&buf)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestReadFrom_TruncatedStream(t *testing.T) {
	b, err := EncodeBatch(interleaved(5))
	require.NoError(t, err)
	data, err := Marshal(b)
	require.NoError(t, err)

	_, err = ReadFrom(bytes.NewReader(data[:len(data)-3]))
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)
}

func BenchmarkMarshal(b *testing.B) {
	blk, err := EncodeBatch(interleaved(1000))
	if err != nil {
		b.Fatal(err)
	}

	for _, ct := range allCompressions {
		b.Run(ct.String(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, _ = Marshal(blk, WithCompression(ct))
			}
		})
	}
}

func BenchmarkEncodeBatch(b *testing.B) {
	records := interleaved(1000)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = EncodeBatch(records)
	}
}
