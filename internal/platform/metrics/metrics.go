package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the certification service.
type Metrics struct {
	DocumentsProcessed *prometheus.CounterVec
	ProcessingDuration prometheus.Histogram
	DuplicateDocuments prometheus.Counter
	AuditEventsDropped prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics on a specific registerer. Tests pass a fresh
// registry so parallel packages do not collide on metric names.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certifi_documents_processed_total",
			Help: "Documents processed, labeled by family and certification verdict",
		}, []string{"family", "verdict"}),
		ProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "certifi_processing_duration_seconds",
			Help:    "End-to-end pipeline duration per document",
			Buckets: prometheus.DefBuckets,
		}),
		DuplicateDocuments: factory.NewCounter(prometheus.CounterOpts{
			Name: "certifi_duplicate_documents_total",
			Help: "Documents whose canonical hash matched an existing record",
		}),
		AuditEventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "certifi_audit_events_dropped_total",
			Help: "Audit events dropped because the publish queue was full",
		}),
	}
}

// ObserveProcessed records one processed document.
func (m *Metrics) ObserveProcessed(family, verdict string, elapsed time.Duration) {
	m.DocumentsProcessed.WithLabelValues(family, verdict).Inc()
	m.ProcessingDuration.Observe(elapsed.Seconds())
}
