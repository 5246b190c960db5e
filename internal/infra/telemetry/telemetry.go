package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the domain-level Prometheus collectors.
type Metrics struct {
	ScansIngested       *prometheus.CounterVec
	AssessmentsDegraded prometheus.Counter
	CentralWriteErrors  prometheus.Counter
	ArtifactRenders     prometheus.Counter
}

// New registers the domain collectors with the provided registerer.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "leadshield"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ScansIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "scans_total",
			Help:      "Total number of scan submissions partitioned by outcome.",
		}, []string{"outcome"}),
		AssessmentsDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "assessments_degraded_total",
			Help:      "Scan submissions that completed with a degraded assessment result.",
		}),
		CentralWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "central_write_errors_total",
			Help:      "Best-effort central store writes that failed and were logged only.",
		}),
		ArtifactRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "artifact",
			Name:      "renders_total",
			Help:      "Deployment bundles rendered or re-rendered.",
		}),
	}

	collectors := []prometheus.Collector{
		m.ScansIngested,
		m.AssessmentsDegraded,
		m.CentralWriteErrors,
		m.ArtifactRenders,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}
