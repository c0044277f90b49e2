// Package cli implements the timetag command line tool.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arloliu/timetag/internal/config"
)

// RootOptions holds global flags and the state prepared for every command.
type RootOptions struct {
	Verbose    bool
	ConfigPath string

	// overrides receives the config flags; only flags set on the command line apply.
	overrides config.Config

	// Config and Logger are set before any subcommand runs.
	Config *config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the root command for the timetag CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "timetag",
		Short: "timetag - photon time-tag processing",
		Long: `Decode photon time-tag streams, correlate detector channels and
recover microtimes against a laser sync channel.

Settings are read from the YAML or JSON file given with --config, then
from TIMETAG_* environment variables, then from the command line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel := slog.LevelInfo
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel,
			}))

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if applyOverrides(cmd, cfg, &opts.overrides) {
				if err := cfg.Validate(); err != nil {
					return WrapExitError(ExitCommandError, "invalid config flags", err)
				}
			}
			opts.Config = cfg

			opts.Logger.Debug("config loaded",
				"path", opts.ConfigPath,
				"format", cfg.Format,
				"bin_width", cfg.BinWidth,
				"n_bins", cfg.NBins,
				"rebin", cfg.Rebin,
				"sync_divider", cfg.SyncDivider,
			)

			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML or JSON config file")

	o := &opts.overrides
	cmd.PersistentFlags().StringVar(&o.Format, "format", "", "stream format: auto, v1 or v2")
	cmd.PersistentFlags().Int64Var(&o.BinWidth, "bin-width", 0, "correlation bin width in time units")
	cmd.PersistentFlags().IntVar(&o.NBins, "n-bins", 0, "number of correlation bins")
	cmd.PersistentFlags().Int64Var(&o.MinLag, "min-lag", 0, "lower edge of the first correlation bin")
	cmd.PersistentFlags().IntVar(&o.Rebin, "rebin", 0, "merge this many consecutive bins before output")
	cmd.PersistentFlags().StringVar(&o.Compression, "compression", "", "histogram blob codec: none, zstd, s2, lz4, snappy")
	cmd.PersistentFlags().Uint64Var(&o.SyncDivider, "sync-divider", 0, "hardware sync divider of the pulse channel")
	cmd.PersistentFlags().Float64Var(&o.TimeUnitSeconds, "time-unit", 0, "duration of one macrotime tick in seconds")

	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewCorrelateCommand(opts))
	cmd.AddCommand(NewMicrotimeCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// applyOverrides copies the config flags set on the command line into cfg and
// reports whether any was set.
func applyOverrides(cmd *cobra.Command, cfg, o *config.Config) bool {
	fields := []struct {
		flag string
		set  func()
	}{
		{"format", func() { cfg.Format = o.Format }},
		{"bin-width", func() { cfg.BinWidth = o.BinWidth }},
		{"n-bins", func() { cfg.NBins = o.NBins }},
		{"min-lag", func() { cfg.MinLag = o.MinLag }},
		{"rebin", func() { cfg.Rebin = o.Rebin }},
		{"compression", func() { cfg.Compression = o.Compression }},
		{"sync-divider", func() { cfg.SyncDivider = o.SyncDivider }},
		{"time-unit", func() { cfg.TimeUnitSeconds = o.TimeUnitSeconds }},
	}

	changed := false
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			f.set()
			changed = true
		}
	}

	return changed
}
