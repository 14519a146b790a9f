// Package monitor periodically samples a generator, analyzes each sample
// and exports the results as Prometheus metrics, structured logs and a
// bbolt-backed history.
package monitor

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/opd-ai/go-goldenseed"
)

// Defaults applied to keys missing from the configuration file.
const (
	DefaultInterval     = 30 * time.Second
	DefaultSampleBlocks = 4096
	DefaultMinQuality   = goldenseed.QualityGood
	DefaultListen       = "127.0.0.1:9464"
)

// Config controls a Sampler.
type Config struct {
	// Interval between samples.
	Interval time.Duration

	// SampleBlocks is the number of blocks drawn per sample.
	SampleBlocks int

	// MinQuality is the lowest quality that does not mark a sample as
	// degraded.
	MinQuality goldenseed.Quality

	// StorePath is the bbolt file holding sample history. Empty disables
	// persistence.
	StorePath string

	// Listen is the address of the /metrics endpoint.
	Listen string
}

// fileConfig mirrors the TOML layout.
type fileConfig struct {
	Interval     string `toml:"interval"`
	SampleBlocks int    `toml:"sample_blocks"`
	MinQuality   string `toml:"min_quality"`
	StorePath    string `toml:"store_path"`
	Listen       string `toml:"listen"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Interval:     DefaultInterval,
		SampleBlocks: DefaultSampleBlocks,
		MinQuality:   DefaultMinQuality,
		Listen:       DefaultListen,
	}
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("monitor: failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses TOML configuration, filling missing keys with
// defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("monitor: failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.Interval != "" {
		d, err := time.ParseDuration(fc.Interval)
		if err != nil {
			return Config{}, fmt.Errorf("monitor: invalid interval: %w", err)
		}
		cfg.Interval = d
	}
	if fc.SampleBlocks != 0 {
		cfg.SampleBlocks = fc.SampleBlocks
	}
	if fc.MinQuality != "" {
		q, err := goldenseed.ParseQuality(fc.MinQuality)
		if err != nil {
			return Config{}, fmt.Errorf("monitor: invalid min_quality: %w", err)
		}
		cfg.MinQuality = q
	}
	if fc.StorePath != "" {
		cfg.StorePath = fc.StorePath
	}
	if fc.Listen != "" {
		cfg.Listen = fc.Listen
	}

	return cfg, cfg.Validate()
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return errors.New("monitor: interval must be positive")
	}
	if c.SampleBlocks <= 0 {
		return errors.New("monitor: sample_blocks must be positive")
	}
	if c.MinQuality < goldenseed.QualityPoor || c.MinQuality > goldenseed.QualityExcellent {
		return fmt.Errorf("monitor: invalid min_quality %d", int(c.MinQuality))
	}
	return nil
}
