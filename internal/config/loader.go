package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/arloliu/impact/metrics"
)

// configName is the config file name without extension.
const configName = ".impact"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for impactctl settings.
const envPrefix = "IMPACT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Load loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	v := viper.New()
	applyDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)

	return &cfg
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("block.compression", DefaultCompression)
	v.SetDefault("block.endian", DefaultEndian)

	v.SetDefault("metrics.concurrency", DefaultConcurrency)
	v.SetDefault("metrics.cache_size", DefaultCacheSize)

	weights := metrics.DefaultWeights()
	v.SetDefault("weights.outcome_improvement", weights.OutcomeImprovement)
	v.SetDefault("weights.cost_efficiency", weights.CostEfficiency)
	v.SetDefault("weights.growth_rate", weights.GrowthRate)

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("output.format", DefaultOutputFormat)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}
