package engine

import (
	"time"

	"go.uber.org/zap"
)

// ============================================================================
// ENGINE OPTIONS: Functional options for Interpret()
// ============================================================================

// DefaultRecentWindow is the look-back used by the "top readers" intent.
const DefaultRecentWindow = 30 * 24 * time.Hour

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Now          func() time.Time
	RecentWindow time.Duration
	Logger       *zap.Logger
}

// WithClock replaces time.Now, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithRecentWindow overrides the "top readers" look-back window.
func WithRecentWindow(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.RecentWindow = d
		}
	}
}

// WithLogger routes debug output (matched intent, input sizes) to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Now:          time.Now,
		RecentWindow: DefaultRecentWindow,
		Logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
