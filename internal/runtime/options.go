package runtime

import (
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
)

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithStepLimit sets the per-invocation step budget. Values below one are
// ignored, keeping the default.
func WithStepLimit(limit int) EngineOption {
	return func(e *Engine) {
		if limit > 0 {
			e.stepLimit = limit
		}
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks invoked at run and step
// boundaries.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}
