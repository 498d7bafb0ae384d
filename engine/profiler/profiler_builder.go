package profiler

import (
	"log/slog"
	"time"
)

// ProfilerOption is a functional option applied to a Profiler during construction.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger stats are written to. Defaults to slog.Default.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ProfilerOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets how often stats are logged.
//
// Parameters:
//   - interval: the logging interval, ignored when not positive
//
// Returns:
//   - ProfilerOption: a function that applies the interval option
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerOption: a function that applies the clock option
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
