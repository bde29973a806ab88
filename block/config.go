package block

import (
	"fmt"

	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/internal/options"
	"github.com/arloliu/impact/section"
)

// MarshalConfig holds the settings used when serializing a block.
type MarshalConfig struct {
	header *section.BlockHeader
}

// NewMarshalConfig returns the default configuration: little-endian byte
// order and no payload compression.
func NewMarshalConfig() *MarshalConfig {
	h := section.NewBlockHeader()
	h.Flag.SetCompression(format.CompressionNone)

	return &MarshalConfig{header: h}
}

// Compression returns the configured payload compression.
func (c *MarshalConfig) Compression() format.CompressionType {
	return c.header.Flag.Compression()
}

// IsBigEndian reports whether fixed-width values are written big-endian.
func (c *MarshalConfig) IsBigEndian() bool {
	return c.header.Flag.IsBigEndian()
}

// MarshalOption is a functional option for Marshal.
type MarshalOption = options.Option[*MarshalConfig]

// WithCompression sets the payload compression.
// Available compression types: format.CompressionNone, format.CompressionZstd,
// format.CompressionS2, format.CompressionLZ4.
func WithCompression(codec format.CompressionType) MarshalOption {
	return options.New(func(c *MarshalConfig) error {
		switch codec {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.header.Flag.SetCompression(codec)
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, codec)
		}
	})
}

// WithLittleEndian writes fixed-width values in little-endian byte order.
func WithLittleEndian() MarshalOption {
	return options.NoError(func(c *MarshalConfig) {
		c.header.Flag.WithLittleEndian()
	})
}

// WithBigEndian writes fixed-width values in big-endian byte order.
func WithBigEndian() MarshalOption {
	return options.NoError(func(c *MarshalConfig) {
		c.header.Flag.WithBigEndian()
	})
}
