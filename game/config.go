package game

import (
	"github.com/pthm-cable/ecosim/telemetry"
)

// Options holds run-level settings that are not part of the simulation config.
type Options struct {
	Seed     int64
	LogStats bool // log stats and perf at every stats interval

	// Output receives CSV rows at every stats interval. nil disables file output.
	Output *telemetry.OutputManager

	// StatsCallback is invoked with each snapshot after it is recorded.
	StatsCallback func(telemetry.Snapshot)
}

// DefaultOptions returns the default run options.
func DefaultOptions() Options {
	return Options{Seed: 42}
}
