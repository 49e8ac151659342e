package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by context hooks.
type Metrics struct {
	Interned    *prometheus.CounterVec
	Compiles    *prometheus.CounterVec
	Diagnostics prometheus.Counter
	Duration    prometheus.Histogram
	GraphNodes  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers nothing, which suits tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Interned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faustbox",
			Name:      "boxes_interned_total",
			Help:      "Box constructor calls, by kind and whether an existing box was reused.",
		}, []string{"kind", "hit"}),
		Compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faustbox",
			Name:      "compilations_total",
			Help:      "Box to signal compilations, by result.",
		}, []string{"result"}),
		Diagnostics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "faustbox",
			Name:      "compile_diagnostics_total",
			Help:      "Diagnostics reported by failed compilations.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "faustbox",
			Name:      "compile_duration_seconds",
			Help:      "Duration of box to signal compilations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		GraphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "faustbox",
			Name:      "signal_graph_nodes",
			Help:      "Size of the signal graph after a successful compilation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Interned, m.Compiles, m.Diagnostics, m.Duration, m.GraphNodes} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns context hooks recording into m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnIntern: func(e domain.InternEvent) {
			hit := "false"
			if e.Hit {
				hit = "true"
			}
			m.Interned.WithLabelValues(e.Kind.String(), hit).Inc()
		},
		OnCompile: func(e domain.CompileEvent) {
			m.Duration.Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.Compiles.WithLabelValues("error").Inc()
				m.Diagnostics.Add(float64(e.Diagnostics))
				return
			}
			m.Compiles.WithLabelValues("ok").Inc()
			m.GraphNodes.Observe(float64(e.Nodes))
		},
	}
}
