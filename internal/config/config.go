// Package config holds the settings of the timetag command line tool.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/timetag/format"
	"github.com/arloliu/timetag/histogram"
)

// FormatAuto selects the stream format by inspecting the file header.
const FormatAuto = "auto"

// Config holds the correlation and output settings shared by the CLI commands.
type Config struct {
	// Format is the stream format: auto, v1 or v2
	Format string `json:"format" yaml:"format"`

	// BinWidth is the width of one correlation bin in time units
	BinWidth int64 `json:"bin_width" yaml:"bin_width"`

	// NBins is the number of correlation bins
	NBins int `json:"n_bins" yaml:"n_bins"`

	// MinLag is the lower edge of the first bin, negative for anti-bunching dips
	MinLag int64 `json:"min_lag" yaml:"min_lag"`

	// Rebin merges this many consecutive bins before output (1 keeps them)
	Rebin int `json:"rebin" yaml:"rebin"`

	// Compression is the histogram blob codec: none, zstd, s2, lz4, snappy
	Compression string `json:"compression" yaml:"compression"`

	// SyncDivider is the hardware sync divider of the pulse channel
	SyncDivider uint64 `json:"sync_divider" yaml:"sync_divider"`

	// TimeUnitSeconds is the duration of one macrotime tick, 0 when unknown
	TimeUnitSeconds float64 `json:"time_unit_seconds" yaml:"time_unit_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Format:      FormatAuto,
		BinWidth:    1,
		NBins:       1000,
		MinLag:      0,
		Rebin:       1,
		Compression: "zstd",
		SyncDivider: 1,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Format != FormatAuto {
		if _, err := format.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
	}

	if c.BinWidth <= 0 {
		return fmt.Errorf("bin_width must be positive, got %d", c.BinWidth)
	}

	if c.NBins <= 0 {
		return fmt.Errorf("n_bins must be positive, got %d", c.NBins)
	}

	if c.Rebin < 1 || c.Rebin > c.NBins {
		return fmt.Errorf("rebin must be between 1 and n_bins (%d), got %d", c.NBins, c.Rebin)
	}

	if _, err := format.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("invalid compression: %w", err)
	}

	if c.SyncDivider == 0 {
		return fmt.Errorf("sync_divider must be at least 1")
	}

	if !(c.TimeUnitSeconds >= 0) || math.IsInf(c.TimeUnitSeconds, 0) {
		return fmt.Errorf("time_unit_seconds must be a finite non-negative number, got %g", c.TimeUnitSeconds)
	}

	return nil
}

// StreamFormat returns the configured stream format. ok is false for FormatAuto.
func (c *Config) StreamFormat() (f format.Format, ok bool, err error) {
	if c.Format == FormatAuto {
		return 0, false, nil
	}

	f, err = format.ParseFormat(c.Format)
	if err != nil {
		return 0, false, err
	}

	return f, true, nil
}

// CompressionType returns the configured blob codec.
func (c *Config) CompressionType() (format.CompressionType, error) {
	return format.ParseCompression(c.Compression)
}

// Edges returns the NBins+1 correlation bin edges starting at MinLag.
func (c *Config) Edges() ([]int64, error) {
	start := c.MinLag
	stop := c.MinLag + int64(c.NBins)*c.BinWidth

	n, err := histogram.LinearEdgesLen(start, stop, c.BinWidth, true, false)
	if err != nil {
		return nil, err
	}

	edges := make([]int64, n)
	if err := histogram.LinearEdges(edges, start, stop, c.BinWidth, true, false); err != nil {
		return nil, err
	}

	return edges, nil
}

// Load returns the defaults overlaid with the file at path, then with TIMETAG_*
// environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML or JSON file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv overrides cfg with TIMETAG_* environment variables.
func LoadFromEnv(cfg *Config) error {
	if v := os.Getenv("TIMETAG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("TIMETAG_COMPRESSION"); v != "" {
		cfg.Compression = v
	}

	ints := []struct {
		key string
		set func(int64)
	}{
		{"TIMETAG_BIN_WIDTH", func(n int64) { cfg.BinWidth = n }},
		{"TIMETAG_N_BINS", func(n int64) { cfg.NBins = int(n) }},
		{"TIMETAG_MIN_LAG", func(n int64) { cfg.MinLag = n }},
		{"TIMETAG_REBIN", func(n int64) { cfg.Rebin = int(n) }},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		e.set(n)
	}

	if v := os.Getenv("TIMETAG_SYNC_DIVIDER"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TIMETAG_SYNC_DIVIDER: %w", err)
		}
		cfg.SyncDivider = n
	}

	if v := os.Getenv("TIMETAG_TIME_UNIT_SECONDS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TIMETAG_TIME_UNIT_SECONDS: %w", err)
		}
		cfg.TimeUnitSeconds = f
	}

	return nil
}
