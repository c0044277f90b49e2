package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/timetag"
	"github.com/arloliu/timetag/blob"
	"github.com/arloliu/timetag/section"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Bins bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <blob-file>",
		Short: "Show the header of a histogram blob",
		Long: `Verify the checksum of a histogram blob written by correlate and
print its header. With --bins the histogram itself is decoded and printed.

Example:
  timetag inspect g2.tth --bins`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Bins, "bins", false, "decode and print the histogram bins")

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read blob", err)
	}

	info, err := blob.Inspect(data)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid histogram blob", err)
	}

	w := cmd.OutOrStdout()
	printHeader(w, info)

	if !opts.Bins {
		return nil
	}

	if info.Header.HasFloatEdges() {
		h, err := timetag.DecodeHistogram[float64](data)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to decode histogram", err)
		}
		printFloatHistogram(w, h)

		return nil
	}

	h, err := timetag.DecodeHistogram[int64](data)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to decode histogram", err)
	}
	printHistogram(w, h.Edges, h.Counts, h.Normalized)

	return nil
}

func printHeader(w io.Writer, info blob.Info) {
	hdr := info.Header

	byteOrder := "little"
	if hdr.Flags&section.FlagBigEndian != 0 {
		byteOrder = "big"
	}

	edges := "int"
	if hdr.HasFloatEdges() {
		edges = "float"
	}

	normalized := "no"
	if hdr.HasNormalized() {
		normalized = "yes"
	}

	fmt.Fprintf(w, "version: %d\n", section.Version)
	fmt.Fprintf(w, "byte order: %s\n", byteOrder)
	fmt.Fprintf(w, "compression: %s\n", hdr.Compression)
	fmt.Fprintf(w, "edges: %s\n", edges)
	fmt.Fprintf(w, "normalized: %s\n", normalized)
	fmt.Fprintf(w, "bins: %d\n", hdr.BinCount)
	fmt.Fprintf(w, "payload: %d bytes\n", hdr.PayloadSize)
	fmt.Fprintf(w, "stored: %d bytes\n", info.StoredSize)
	fmt.Fprintln(w, "checksum: ok")
}

func printFloatHistogram(w io.Writer, h blob.Histogram[float64]) {
	fmt.Fprintln(w, "lag\tcount\tnormalized")
	for i, c := range h.Counts {
		norm := "-"
		if h.Normalized != nil {
			norm = formatFloat(h.Normalized[i])
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", formatFloat(h.Edges[i]), c, norm)
	}
}
