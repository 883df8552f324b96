package job

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option is a function that allows configuring the Runtime.
type Option func(*Runtime) error

// WithLogger sets the logger used by the Runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) error {
		rt.logger = logger.With("component", "job-runtime")
		return nil
	}
}

// WithRegisterer registers the Runtime metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(rt *Runtime) error {
		if err := rt.metrics.register(reg); err != nil {
			return fmt.Errorf("failed registering job runtime metrics: %w", err)
		}
		return nil
	}
}

// DefaultOptions returns the default Runtime options.
func DefaultOptions() []Option {
	return []Option{
		WithLogger(slog.Default()),
		func(rt *Runtime) error {
			rt.metrics = newMetrics()
			return nil
		},
	}
}
