package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arloliu/timetag/microtime"
	"github.com/arloliu/timetag/stream"
)

// MicrotimeOptions holds flags for the microtime command.
type MicrotimeOptions struct {
	*RootOptions
	Head              int
	AdditionalDivider uint64
	MicroDelay        int64
}

// NewMicrotimeCommand creates the microtime command.
func NewMicrotimeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MicrotimeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "microtime <pulses-stream> <data-stream>",
		Short: "Recover photon microtimes from a sync channel",
		Long: `Compute the delay of every photon after the preceding laser pulse,
folded onto the pulse period divided by the total sync divider, the
product of sync_divider and --additional-divider. --micro-delay is
subtracted from every microtime.

Pulses are extrapolated at the mean period when the photons extend
beyond the recorded sync channel.

Example:
  timetag microtime sync.tt ch1.tt --head 100
  timetag microtime sync.tt ch1.tt --sync-divider 4 --micro-delay 120`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMicrotime(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Head, "head", "n", 10, "number of photons to print (negative prints all)")
	cmd.Flags().Uint64Var(&opts.AdditionalDivider, "additional-divider", 1, "sync divider applied after the hardware one")
	cmd.Flags().Int64Var(&opts.MicroDelay, "micro-delay", 0, "delay subtracted from every microtime, in time units")

	return cmd
}

func runMicrotime(opts *MicrotimeOptions, pulsesPath, dataPath string, cmd *cobra.Command) error {
	pulses, _, err := readChannel(opts.RootOptions, pulsesPath, stream.Session{})
	if err != nil {
		return err
	}

	data, _, err := readChannel(opts.RootOptions, dataPath, stream.Session{})
	if err != nil {
		return err
	}

	ch := stream.ChannelInfo{
		Filename:              filepath.Base(dataPath),
		NumPhotons:            uint64(len(data.Macrotimes)),
		HasPulsesChannel:      true,
		HardwareSyncDivider:   opts.Config.SyncDivider,
		AdditionalSyncDivider: opts.AdditionalDivider,
		MicroDelayTime:        opts.MicroDelay,
	}

	extended, period, err := microtime.Pulses(pulses.Macrotimes, data.Macrotimes)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid sync channel", err)
	}

	micro := make([]int64, len(data.Macrotimes))
	if err := microtime.Fold(micro, extended, data.Macrotimes, period, ch.TotalSyncDivider()); err != nil {
		return WrapExitError(ExitFailure, "microtime generation failed", err)
	}
	if ch.MicroDelayTime != 0 {
		for i := range micro {
			micro[i] -= ch.MicroDelayTime
		}
	}
	opts.Logger.Debug("microtimes generated", "channel", ch.Filename, "photons", len(micro), "period", period)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "pulses: %d\n", len(pulses.Macrotimes))
	fmt.Fprintf(w, "extended pulses: %d\n", len(extended))
	fmt.Fprintf(w, "photons: %d\n", ch.NumPhotons)
	fmt.Fprintf(w, "period: %s\n", formatFloat(period))
	fmt.Fprintf(w, "divider: %d\n", ch.TotalSyncDivider())
	if ch.MicroDelayTime != 0 {
		fmt.Fprintf(w, "delay: %d\n", ch.MicroDelayTime)
	}

	fmt.Fprintln(w, "macrotime\tmicrotime")
	for i := range headCount(opts.Head, len(micro)) {
		fmt.Fprintf(w, "%d\t%d\n", data.Macrotimes[i], micro[i])
	}

	return nil
}
