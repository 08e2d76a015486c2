package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the router's Prometheus instrumentation. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Turns        *prometheus.CounterVec
	Steps        prometheus.Counter
	Actions      *prometheus.CounterVec
	Handoffs     *prometheus.CounterVec
	ModelRetries prometheus.Counter
}

// NewMetrics registers the router metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flo",
			Subsystem: "router",
			Name:      "turns_total",
			Help:      "Completed turns by outcome.",
		}, []string{"status"}),
		Steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flo",
			Subsystem: "router",
			Name:      "steps_total",
			Help:      "Agent steps executed.",
		}),
		Actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flo",
			Subsystem: "router",
			Name:      "action_executions_total",
			Help:      "Action invocations by outcome.",
		}, []string{"status"}),
		Handoffs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flo",
			Subsystem: "router",
			Name:      "handoffs_total",
			Help:      "Processed handoffs by scope.",
		}, []string{"scope"}),
		ModelRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flo",
			Subsystem: "router",
			Name:      "model_retries_total",
			Help:      "Model calls retried after a failure.",
		}),
	}
}

func (m *Metrics) countTurn(status string) {
	if m != nil {
		m.Turns.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) countStep() {
	if m != nil {
		m.Steps.Inc()
	}
}

func (m *Metrics) countAction(status string) {
	if m != nil {
		m.Actions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) countHandoff(scope string) {
	if m != nil {
		m.Handoffs.WithLabelValues(scope).Inc()
	}
}

func (m *Metrics) countModelRetry() {
	if m != nil {
		m.ModelRetries.Inc()
	}
}
