package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/lattice/pkg/domain"
)

// Metrics bundles the Prometheus collectors for graph execution and exposes
// them as lifecycle hooks. Exposition (HTTP or otherwise) is the caller's
// concern; the collectors are registered on the given registerer.
type Metrics struct {
	runs         *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors. Pass
// prometheus.DefaultRegisterer for the process-wide registry, or a private
// registry in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_runs_total",
				Help: "Total number of graph invocations by outcome",
			},
			[]string{"outcome"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_steps_total",
				Help: "Total number of executed steps by node",
			},
			[]string{"node"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_step_duration_seconds",
				Help:    "Duration of step execution by node",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"node"},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.steps, m.stepDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors. Combine with other
// hooks via Chain if needed.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeLeave: func(_ context.Context, ev *domain.RunEvent) {
			m.steps.WithLabelValues(ev.Node).Inc()
			m.stepDuration.WithLabelValues(ev.Node).Observe(ev.Duration.Seconds())
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			outcome := "success"
			if ev.Err != nil {
				outcome = "failure"
			}
			m.runs.WithLabelValues(outcome).Inc()
		},
	}
}

// Chain merges hook sets, invoking them in order. Nil callbacks are skipped.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart:  chainFn(hooks, func(h domain.LifecycleHooks) func(context.Context, *domain.RunEvent) { return h.OnRunStart }),
		OnNodeEnter: chainFn(hooks, func(h domain.LifecycleHooks) func(context.Context, *domain.RunEvent) { return h.OnNodeEnter }),
		OnNodeLeave: chainFn(hooks, func(h domain.LifecycleHooks) func(context.Context, *domain.RunEvent) { return h.OnNodeLeave }),
		OnRunEnd:    chainFn(hooks, func(h domain.LifecycleHooks) func(context.Context, *domain.RunEvent) { return h.OnRunEnd }),
	}
}

func chainFn(hooks []domain.LifecycleHooks, pick func(domain.LifecycleHooks) func(context.Context, *domain.RunEvent)) func(context.Context, *domain.RunEvent) {
	var fns []func(context.Context, *domain.RunEvent)
	for _, h := range hooks {
		if fn := pick(h); fn != nil {
			fns = append(fns, fn)
		}
	}
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, ev *domain.RunEvent) {
		for _, fn := range fns {
			fn(ctx, ev)
		}
	}
}
