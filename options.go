package lattice

import (
	"log/slog"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
)

// DefaultStepLimit is the per-invocation step budget applied when no
// WithStepLimit option is given.
const DefaultStepLimit = runtime.DefaultStepLimit

// Option defines a functional option for Compile.
type Option func(*config)

type config struct {
	stepLimit int
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

func newConfig() *config {
	return &config{stepLimit: DefaultStepLimit}
}

// WithStepLimit sets the per-invocation step budget, the engine's intrinsic
// guard against conditional cycles that never reach End.
func WithStepLimit(limit int) Option {
	return func(c *config) {
		if limit > 0 {
			c.stepLimit = limit
		}
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks invoked at run and step
// boundaries.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}
