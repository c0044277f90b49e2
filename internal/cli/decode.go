package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arloliu/timetag/stream"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	*RootOptions
	Head      int
	Records   uint64
	Overflows uint64
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <stream-file>",
		Short: "Decode a time-tag stream and print its photons",
		Long: `Decode a time-tag stream file and print the session summary followed
by the first photons.

Decoding can resume from an earlier session by passing the record and
overflow counts it reported.

Example:
  timetag decode ch1.tt --head 20
  timetag decode ch1.tt --records 4096 --overflows 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Head, "head", "n", 10, "number of photons to print (negative prints all)")
	cmd.Flags().Uint64Var(&opts.Records, "records", 0, "records already consumed by an earlier session")
	cmd.Flags().Uint64Var(&opts.Overflows, "overflows", 0, "overflow total reached by an earlier session")

	return cmd
}

func runDecode(opts *DecodeOptions, path string, cmd *cobra.Command) error {
	sess := stream.Session{Records: opts.Records, Overflows: opts.Overflows}
	res, f, err := readChannel(opts.RootOptions, path, sess)
	if err != nil {
		return err
	}

	ch := stream.ChannelInfo{
		Filename:     filepath.Base(path),
		NumPhotons:   uint64(len(res.Macrotimes)),
		NumOverflows: res.Session.Overflows,
		HasMicrotime: res.Microtimes != nil,
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "file: %s\n", ch.Filename)
	fmt.Fprintf(w, "format: %s\n", f)
	fmt.Fprintf(w, "photons: %d\n", ch.NumPhotons)
	fmt.Fprintf(w, "records: %d\n", res.Session.Records)
	fmt.Fprintf(w, "overflows: %d\n", ch.NumOverflows)

	exp := stream.ExperimentInfo{TimeUnitSeconds: opts.Config.TimeUnitSeconds}
	if exp.TimeUnitSeconds > 0 && len(res.Macrotimes) > 0 {
		span := res.Macrotimes[len(res.Macrotimes)-1] - res.Macrotimes[0]
		fmt.Fprintf(w, "duration: %s s\n", formatFloat(exp.Seconds(span)))
	}

	n := headCount(opts.Head, len(res.Macrotimes))
	if ch.HasMicrotime {
		fmt.Fprintln(w, "macrotime\tmicrotime")
		for i := range n {
			fmt.Fprintf(w, "%d\t%d\n", res.Macrotimes[i], res.Microtimes[i])
		}

		return nil
	}

	fmt.Fprintln(w, "macrotime")
	for _, m := range res.Macrotimes[:n] {
		fmt.Fprintf(w, "%d\n", m)
	}

	return nil
}
