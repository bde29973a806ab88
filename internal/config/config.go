// Package config loads impactctl settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/endian"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/metrics"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultCompression  = "zstd"
	DefaultEndian       = endian.LittleEndianName
	DefaultConcurrency  = 4
	DefaultCacheSize    = metrics.DefaultCacheSize
	DefaultDatabasePath = "impact.db"
	DefaultOutputFormat = "table"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

// Config is the top-level configuration struct for impactctl.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Block    BlockConfig     `mapstructure:"block"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	Database DatabaseConfig  `mapstructure:"database"`
	Output   OutputConfig    `mapstructure:"output"`
	Log      LogConfig       `mapstructure:"log"`
	Weights  metrics.Weights `mapstructure:"weights"`
}

// BlockConfig holds serialization settings for saved blocks.
type BlockConfig struct {
	Compression string `mapstructure:"compression"`
	Endian      string `mapstructure:"endian"`
}

// MetricsConfig holds analytics resource knobs.
type MetricsConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	CacheSize   int `mapstructure:"cache_size"`
}

// DatabaseConfig holds the block store location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// OutputConfig selects how command results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidCompression indicates an unknown block.compression name.
	ErrInvalidCompression = errors.New("block.compression must be one of none, zstd, s2, lz4")
	// ErrInvalidEndian indicates an unknown block.endian name.
	ErrInvalidEndian = errors.New("block.endian must be little or big")
	// ErrInvalidConcurrency indicates the worker count is not positive.
	ErrInvalidConcurrency = errors.New("metrics.concurrency must be positive")
	// ErrInvalidCacheSize indicates the cache size is negative.
	ErrInvalidCacheSize = errors.New("metrics.cache_size must be non-negative")
	// ErrEmptyDatabasePath indicates the database path is empty.
	ErrEmptyDatabasePath = errors.New("database.path must not be empty")
	// ErrInvalidOutputFormat indicates an unknown output.format.
	ErrInvalidOutputFormat = errors.New("output.format must be one of table, json, yaml")
	// ErrInvalidLogLevel indicates an unknown log.level.
	ErrInvalidLogLevel = errors.New("log.level must be one of debug, info, warn, error")
	// ErrInvalidLogFormat indicates an unknown log.format.
	ErrInvalidLogFormat = errors.New("log.format must be text or json")
)

// Output formats accepted by output.format.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if _, ok := format.ParseCompression(c.Block.Compression); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCompression, c.Block.Compression)
	}

	if c.Block.Endian != endian.LittleEndianName && c.Block.Endian != endian.BigEndianName {
		return fmt.Errorf("%w: %q", ErrInvalidEndian, c.Block.Endian)
	}

	if c.Metrics.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.Metrics.CacheSize < 0 {
		return ErrInvalidCacheSize
	}

	if err := c.Weights.Validate(); err != nil {
		return err
	}

	if c.Database.Path == "" {
		return ErrEmptyDatabasePath
	}

	switch c.Output.Format {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.Format)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}

	return nil
}

// MarshalOptions converts the block settings into block.Marshal options.
func (c *Config) MarshalOptions() []block.MarshalOption {
	compression, _ := format.ParseCompression(c.Block.Compression)
	opts := []block.MarshalOption{block.WithCompression(compression)}

	if c.Block.Endian == endian.BigEndianName {
		opts = append(opts, block.WithBigEndian())
	} else {
		opts = append(opts, block.WithLittleEndian())
	}

	return opts
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	return level, nil
}
