package cli

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/arloliu/timetag/stream"
)

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <pattern>...",
		Short: "Count photons in stream files",
		Long: `Count the photon records of every stream file matching the given
patterns without materializing their timestamps.

Patterns support ** for recursive matching.

Example:
  timetag count 'runs/**/*.tt'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(rootOpts, args, cmd)
		},
	}

	return cmd
}

// expandPatterns returns the sorted, de-duplicated files matching patterns.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid pattern %q", p), err)
		}
		files = append(files, matches...)
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

func runCount(opts *RootOptions, patterns []string, cmd *cobra.Command) error {
	files, err := expandPatterns(patterns)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return NewExitError(ExitCommandError, "no stream files matched")
	}
	opts.Logger.Debug("patterns expanded", "patterns", patterns, "files", len(files))

	w := cmd.OutOrStdout()
	var total uint64
	for _, path := range files {
		f, err := channelFormat(opts, path)
		if err != nil {
			return err
		}

		n, err := stream.CountPhotonsFile(path, f)
		if err != nil {
			return WrapExitError(exitCodeFor(err), "failed to count "+path, err)
		}
		total += n

		fmt.Fprintf(w, "%s\t%s\t%d\n", filepath.ToSlash(path), f, n)
	}
	fmt.Fprintf(w, "total\t%d\n", total)

	return nil
}
