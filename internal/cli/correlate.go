package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/timetag"
	"github.com/arloliu/timetag/blob"
	"github.com/arloliu/timetag/stream"
)

// CorrelateOptions holds flags for the correlate command.
type CorrelateOptions struct {
	*RootOptions
	Output string
	Raw    bool
}

// NewCorrelateCommand creates the correlate command.
func NewCorrelateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CorrelateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "correlate <left-stream> <right-stream>",
		Short: "Cross-correlate two detector channels",
		Long: `Cross-correlate the photons of two stream files and print the lag
histogram.

Bins come from bin_width, n_bins and min_lag in the config. Bins are
merged by the rebin factor before normalization. With --output the
histogram is also stored as a compressed blob.

Example:
  timetag correlate ch1.tt ch2.tt --config g2.yaml -o g2.tth`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrelate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the histogram blob to this file")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "skip normalization")

	return cmd
}

func runCorrelate(opts *CorrelateOptions, leftPath, rightPath string, cmd *cobra.Command) error {
	cfg := opts.Config

	left, _, err := readChannel(opts.RootOptions, leftPath, stream.Session{})
	if err != nil {
		return err
	}

	right, _, err := readChannel(opts.RootOptions, rightPath, stream.Session{})
	if err != nil {
		return err
	}

	edges, err := cfg.Edges()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid bin edges", err)
	}

	counts, err := timetag.CrossCorrelate(edges, left.Macrotimes, right.Macrotimes)
	if err != nil {
		return WrapExitError(ExitFailure, "correlation failed", err)
	}
	h := blob.Histogram[int64]{Edges: edges, Counts: counts}
	opts.Logger.Debug("channels correlated", "bins", len(counts), "width", cfg.BinWidth)

	if cfg.Rebin > 1 {
		if h, err = timetag.Rebin(h, cfg.Rebin); err != nil {
			return WrapExitError(ExitFailure, "rebin failed", err)
		}
		opts.Logger.Debug("histogram rebinned", "factor", cfg.Rebin, "bins", h.Bins())
	}

	if !opts.Raw {
		if err := timetag.NormalizeOver(&h, left.Macrotimes, right.Macrotimes); err != nil {
			return WrapExitError(ExitFailure, "normalization failed", err)
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "left: %d photons\n", len(left.Macrotimes))
	fmt.Fprintf(w, "right: %d photons\n", len(right.Macrotimes))
	fmt.Fprintf(w, "bins: %d\n", h.Bins())
	printHistogram(w, h.Edges, h.Counts, h.Normalized)

	if opts.Output == "" {
		return nil
	}

	return writeHistogram(opts.RootOptions, opts.Output, h)
}

func writeHistogram(opts *RootOptions, path string, h blob.Histogram[int64]) error {
	compression, err := opts.Config.CompressionType()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid compression", err)
	}

	data, err := timetag.EncodeHistogram(h, blob.WithCompression(compression))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode histogram", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return WrapExitError(ExitCommandError, "failed to write histogram", err)
	}
	opts.Logger.Info("histogram written", "path", path, "bytes", len(data), "compression", compression)

	return nil
}
