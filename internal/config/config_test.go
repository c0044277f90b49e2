package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/timetag/format"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	_, ok, err := cfg.StreamFormat()
	require.NoError(t, err)
	require.False(t, ok)

	c, err := cfg.CompressionType()
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, c)

	edges, err := cfg.Edges()
	require.NoError(t, err)
	require.Len(t, edges, 1001)
	require.Equal(t, int64(0), edges[0])
	require.Equal(t, int64(1000), edges[1000])
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := writeFile(t, "timetag.yaml", `
format: v1
bin_width: 4
n_bins: 3
min_lag: -6
compression: lz4
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	f, ok, err := cfg.StreamFormat()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, format.FormatV1, f)

	edges, err := cfg.Edges()
	require.NoError(t, err)
	require.Equal(t, []int64{-6, -2, 2, 6}, edges)

	// unset keys keep their defaults
	require.Equal(t, 1, cfg.Rebin)
	require.Equal(t, uint64(1), cfg.SyncDivider)
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := writeFile(t, "timetag.json", `{"n_bins": 8, "rebin": 2, "sync_divider": 4}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.NBins)
	require.Equal(t, 2, cfg.Rebin)
	require.Equal(t, uint64(4), cfg.SyncDivider)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFromFile(writeFile(t, "timetag.toml", "n_bins = 3"))
	require.ErrorContains(t, err, "unsupported config file format")

	_, err = LoadFromFile(writeFile(t, "bad.yaml", "n_bins: [1, 2"))
	require.ErrorContains(t, err, "failed to parse YAML")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "timetag.yml", "n_bins: 10\nbin_width: 2\n")
	t.Setenv("TIMETAG_N_BINS", "20")
	t.Setenv("TIMETAG_COMPRESSION", "snappy")
	t.Setenv("TIMETAG_SYNC_DIVIDER", "8")
	t.Setenv("TIMETAG_TIME_UNIT_SECONDS", "1e-12")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 20, cfg.NBins)
	require.Equal(t, int64(2), cfg.BinWidth)
	require.Equal(t, "snappy", cfg.Compression)
	require.Equal(t, uint64(8), cfg.SyncDivider)
	require.InDelta(t, 1e-12, cfg.TimeUnitSeconds, 1e-24)

	t.Setenv("TIMETAG_TIME_UNIT_SECONDS", "ps")
	_, err = Load(path)
	require.ErrorContains(t, err, "TIMETAG_TIME_UNIT_SECONDS")
	t.Setenv("TIMETAG_TIME_UNIT_SECONDS", "")

	t.Setenv("TIMETAG_REBIN", "two")
	_, err = Load(path)
	require.ErrorContains(t, err, "TIMETAG_REBIN")
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
		want string
	}{
		{"format", func(c *Config) { c.Format = "v3" }, "invalid format"},
		{"bin width", func(c *Config) { c.BinWidth = 0 }, "bin_width"},
		{"bins", func(c *Config) { c.NBins = -1 }, "n_bins"},
		{"rebin zero", func(c *Config) { c.Rebin = 0 }, "rebin"},
		{"rebin too large", func(c *Config) { c.NBins, c.Rebin = 4, 5 }, "rebin"},
		{"compression", func(c *Config) { c.Compression = "brotli" }, "invalid compression"},
		{"sync divider", func(c *Config) { c.SyncDivider = 0 }, "sync_divider"},
		{"negative time unit", func(c *Config) { c.TimeUnitSeconds = -1e-12 }, "time_unit_seconds"},
		{"NaN time unit", func(c *Config) { c.TimeUnitSeconds = math.NaN() }, "time_unit_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
