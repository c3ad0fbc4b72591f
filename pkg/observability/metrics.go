package observability

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/tms/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus collectors of the simulator.
type Metrics struct {
	registry *prometheus.Registry

	Loads     prometheus.Counter
	Steps     *prometheus.CounterVec
	Halts     prometheus.Counter
	Errors    *prometheus.CounterVec
	Extension prometheus.Counter
	RunSteps  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tms_loads_total",
			Help: "Total number of configuration loads, resets and snapshot restores",
		}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tms_steps_total",
			Help: "Total number of applied transitions",
		}, []string{"direction"}),
		Halts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tms_halts_total",
			Help: "Total number of machines that reached their halt state",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tms_step_errors_total",
			Help: "Total number of rejected steps",
		}, []string{"kind"}),
		Extension: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tms_tape_extensions_total",
			Help: "Total number of cells appended to the right end of a tape",
		}),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tms_run_steps",
			Help:    "Steps taken by machines until they halted",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	m.registry.MustRegister(m.Loads, m.Steps, m.Halts, m.Errors, m.Extension, m.RunSteps)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record every engine event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(e *domain.LoadEvent) {
			m.Loads.Inc()
		},
		OnStep: func(e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Direction.String()).Inc()
			if e.Extended {
				m.Extension.Inc()
			}
		},
		OnHalt: func(e *domain.HaltEvent) {
			m.Halts.Inc()
			m.RunSteps.Observe(float64(e.Steps))
		},
		OnError: func(e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(ErrorKind(e.Err)).Inc()
		},
	}
}

// ErrorKind maps a step error to a short metric label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyTape):
		return "empty_tape"
	case errors.Is(err, domain.ErrTapeUnderflow):
		return "tape_underflow"
	case errors.Is(err, domain.ErrNoMatchingInstruction):
		return "no_matching_instruction"
	}
	return "other"
}

// LoggingHooks returns lifecycle hooks that log every engine event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(e *domain.LoadEvent) {
			logger.Info("machine_load",
				"source", e.Source,
				"state", e.State,
				"halt_state", e.HaltState,
				"instructions", e.Instructions,
				"reset", e.Reset,
			)
		},
		OnStep: func(e *domain.StepEvent) {
			logger.Debug("machine_step",
				"step", e.Step,
				"from", e.FromState,
				"to", e.ToState,
				"read", e.Read.String(),
				"written", e.Written.String(),
				"direction", e.Direction.String(),
				"head", e.Head,
			)
		},
		OnHalt: func(e *domain.HaltEvent) {
			logger.Info("machine_halt", "state", e.State, "steps", e.Steps)
		},
		OnError: func(e *domain.ErrorEvent) {
			logger.Warn("machine_step_rejected", "kind", ErrorKind(e.Err), "err", e.Err)
		},
	}
}
