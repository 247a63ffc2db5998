package profiler

import (
	"log/slog"
	"time"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger reports are written to.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets how often a report is logged. Values <= 0 keep the default of one second.
//
// Parameters:
//   - interval: the minimum time between reports
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithSource registers a Source at construction time.
//
// Parameters:
//   - src: the source to add
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithSource(src Source) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.sources = append(p.sources, src)
	}
}
