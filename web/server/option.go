package server

import (
	"github.com/prometheus/client_golang/prometheus"

	dbtypes "go.hackfix.me/strand/db/types"
	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server/handler"
	"go.hackfix.me/strand/web/server/types"
)

// Gatherer is a prometheus registry that can both register and gather metrics.
type Gatherer interface {
	prometheus.Registerer
	prometheus.Gatherer
}

type config struct {
	runtime    *job.Runtime
	auth       handler.TokenVerifier
	errorLevel types.ErrorLevel
	registry   Gatherer
	auditLog   dbtypes.Querier
}

// Option is a function that allows configuring the Server.
type Option func(*config) error

// WithRuntime sets the runtime jobs started by request handlers run on.
func WithRuntime(rt *job.Runtime) Option {
	return func(cfg *config) error {
		cfg.runtime = rt
		return nil
	}
}

// WithTokenVerifier sets the verifier of API tokens.
func WithTokenVerifier(v handler.TokenVerifier) Option {
	return func(cfg *config) error {
		cfg.auth = v
		return nil
	}
}

// WithErrorLevel sets the detail level of error messages returned to clients.
func WithErrorLevel(lvl types.ErrorLevel) Option {
	return func(cfg *config) error {
		if _, err := types.ErrorLevelFromString(string(lvl)); err != nil {
			return err
		}
		cfg.errorLevel = lvl
		return nil
	}
}

// WithMetrics enables HTTP metrics, and serves the metrics in reg on the
// /metrics endpoint.
func WithMetrics(reg Gatherer) Option {
	return func(cfg *config) error {
		cfg.registry = reg
		return nil
	}
}

// WithAuditLog stores a record of every authenticated API request in d.
func WithAuditLog(d dbtypes.Querier) Option {
	return func(cfg *config) error {
		cfg.auditLog = d
		return nil
	}
}

// DefaultOptions returns the default Server options.
func DefaultOptions() []Option {
	return []Option{
		WithErrorLevel(types.ErrorLevelMinimal),
	}
}
