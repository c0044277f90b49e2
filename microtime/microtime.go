// Package microtime derives the phase of photon arrivals relative to a periodic
// reference signal, typically the laser sync pulses of a TCSPC experiment.
//
// Stream formats without a hardware microtime field record the sync pulses on a
// separate channel. Generate reconstructs each photon's microtime as its delay after
// the nearest preceding pulse, folded onto the pulse period divided by the sync
// divider.
package microtime

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/internal/pool"
	"github.com/arloliu/timetag/search"
)

// spacing returns the mean pulse spacing and its rounded value, the synthesis period.
func spacing(pulses []int64) (float64, int64, error) {
	if len(pulses) < 2 {
		return 0, 0, fmt.Errorf("%d sync pulses, need at least 2: %w", len(pulses), errs.ErrInvalidArgument)
	}

	mean := float64(pulses[len(pulses)-1]-pulses[0]) / float64(len(pulses)-1)
	period := int64(math.Round(mean))
	if period <= 0 {
		return 0, 0, fmt.Errorf("sync period %d: %w", period, errs.ErrInvalidArgument)
	}

	return mean, period, nil
}

// extraPulses returns how many pulses must be synthesized before pulses[0] and
// after pulses[last] so that the sequence brackets data.
func extraPulses(pulses, data []int64, period int64) (before, after int) {
	if len(data) == 0 {
		return 0, 0
	}

	if gap := pulses[0] - data[0]; gap > 0 {
		before = int((gap + period - 1) / period)
	}

	if gap := data[len(data)-1] - pulses[len(pulses)-1]; gap >= 0 {
		after = int(gap/period) + 1
	}

	return before, after
}

// merge fills dst with the synthesized pulses and the original ones, sorted.
// dst must hold len(pulses)+before+after values.
func merge(dst, pulses []int64, before, after int, period int64) {
	for k := 1; k <= before; k++ {
		dst[before-k] = pulses[0] - int64(k)*period
	}

	copy(dst[before:], pulses)

	last := pulses[len(pulses)-1]
	base := before + len(pulses)
	for k := 1; k <= after; k++ {
		dst[base+k-1] = last + int64(k)*period
	}

	// pulses may deviate from the grid, so synthesized pulses can interleave with them
	slices.Sort(dst)
}

// Pulses returns the sync pulses extended by extrapolation so that they bracket
// data, together with the mean pulse spacing.
//
// Pulses are stepped back from pulses[0] by the rounded mean spacing until one lies
// at or before data[0], and forward from pulses[last] until one lies after
// data[last]. Both inputs must be sorted.
func Pulses(pulses, data []int64) ([]int64, float64, error) {
	mean, period, err := spacing(pulses)
	if err != nil {
		return nil, 0, err
	}

	before, after := extraPulses(pulses, data, period)
	merged := make([]int64, before+len(pulses)+after)
	merge(merged, pulses, before, after, period)

	return merged, mean, nil
}

// Generate writes the microtime of each data timestamp to out: the delay after the
// nearest preceding pulse modulo meanSpacing/totalSyncDivider, truncated to an
// integer. Both pulses and data must be sorted.
//
// Returns:
//   - errs.ErrNullInput if out is nil while data is not empty
//   - errs.ErrLengthMismatch if len(out) != len(data)
//   - errs.ErrInvalidArgument for a zero divider, fewer than 2 pulses or a
//     non-positive pulse period
//   - errs.ErrUnreachableState if a timestamp has no preceding pulse, which
//     happens only with unsorted data
func Generate(out, pulses, data []int64, totalSyncDivider uint64) error {
	if err := checkOutput(out, data, totalSyncDivider); err != nil {
		return err
	}

	mean, period, err := spacing(pulses)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	before, after := extraPulses(pulses, data, period)
	merged, release := pool.GetInt64Slice(before + len(pulses) + after)
	defer release()
	merge(merged, pulses, before, after, period)

	return fold(out, merged, data, mean/float64(totalSyncDivider))
}

// Fold is Generate for a pulse train that already brackets data, such as the
// one returned by Pulses, with meanSpacing the spacing Pulses reported.
//
// Returns the errors of Generate, and errs.ErrInvalidArgument for a
// non-positive meanSpacing.
func Fold(out, pulses, data []int64, meanSpacing float64, totalSyncDivider uint64) error {
	if err := checkOutput(out, data, totalSyncDivider); err != nil {
		return err
	}

	if !(meanSpacing > 0) {
		return fmt.Errorf("sync period %g: %w", meanSpacing, errs.ErrInvalidArgument)
	}

	if len(data) == 0 {
		return nil
	}

	return fold(out, pulses, data, meanSpacing/float64(totalSyncDivider))
}

func checkOutput(out, data []int64, totalSyncDivider uint64) error {
	if out == nil && len(data) > 0 {
		return fmt.Errorf("microtime output: %w", errs.ErrNullInput)
	}

	if len(out) != len(data) {
		return fmt.Errorf("microtime output length %d, %d timestamps: %w", len(out), len(data), errs.ErrLengthMismatch)
	}

	if totalSyncDivider == 0 {
		return fmt.Errorf("sync divider 0: %w", errs.ErrInvalidArgument)
	}

	return nil
}

// fold takes each timestamp's delay after its preceding pulse modulo div.
func fold(out, pulses, data []int64, div float64) error {
	cursor := 0
	for i, t := range data {
		next := search.Upper(pulses, t, cursor)
		if next == 0 {
			return fmt.Errorf("timestamp %d precedes every sync pulse: %w", t, errs.ErrUnreachableState)
		}
		cursor = next - 1

		dt := t - pulses[cursor]
		out[i] = int64(math.Mod(float64(dt), div))
	}

	return nil
}
