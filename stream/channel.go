package stream

import "path/filepath"

// ChannelInfo describes one detector channel of a recorded experiment, as listed in
// the experiment's channel header. Filling it in is up to the caller.
type ChannelInfo struct {
	ID           uint64
	Filename     string
	NumPhotons   uint64
	NumOverflows uint64
	// HasMicrotime marks channels whose microtimes are recorded in the stream (V1).
	HasMicrotime bool
	// IsPulsesChannel marks the laser sync channel.
	IsPulsesChannel bool
	// HasPulsesChannel and CorrespondingPulsesChannel link a data channel to its sync channel.
	HasPulsesChannel           bool
	CorrespondingPulsesChannel uint64
	HardwareSyncDivider        uint64
	AdditionalSyncDivider      uint64
	// MicroDelayTime is a per-channel microtime offset in time units.
	MicroDelayTime int64
}

// TotalSyncDivider is the product of the hardware and additional sync dividers.
// Unset (zero) dividers count as 1.
func (c ChannelInfo) TotalSyncDivider() uint64 {
	return max(c.HardwareSyncDivider, 1) * max(c.AdditionalSyncDivider, 1)
}

// Path joins the channel's stream file name onto dir.
func (c ChannelInfo) Path(dir string) string {
	return filepath.Join(dir, c.Filename)
}

// ExperimentInfo holds experiment-wide metadata.
type ExperimentInfo struct {
	// TimeUnitSeconds is the duration of one macrotime tick.
	TimeUnitSeconds float64
	DeviceType      string
}

// Seconds converts a tick count to seconds.
func (e ExperimentInfo) Seconds(ticks int64) float64 {
	return float64(ticks) * e.TimeUnitSeconds
}
