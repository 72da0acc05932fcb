package animation

import "log/slog"

// ClipBuilderOption is a functional option for configuring a Clip during construction.
type ClipBuilderOption func(*Clip)

// WithTicksPerSecond overrides the imported tick rate.
//
// Parameters:
//   - tps: ticks per second; 0 keeps the imported rate
//
// Returns:
//   - ClipBuilderOption: functional option to set the tick rate
func WithTicksPerSecond(tps float32) ClipBuilderOption {
	return func(c *Clip) {
		if tps != 0 {
			c.ticksPerSecond = tps
		}
	}
}

// WithLogger sets the logger used for binding diagnostics.
func WithLogger(logger *slog.Logger) ClipBuilderOption {
	return func(c *Clip) {
		if logger != nil {
			c.logger = logger
		}
	}
}
