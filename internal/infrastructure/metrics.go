package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments of the batch engine.
type Metrics struct {
	Registry *prometheus.Registry

	// BatchesTotal counts batch runs by kind (classify, reconcile) and
	// outcome (success, failure).
	BatchesTotal *prometheus.CounterVec
	// RequisitionsClassified counts classified requisitions by result.
	RequisitionsClassified *prometheus.CounterVec
	// UnmatchedOrderCodes counts order codes with no historical match.
	UnmatchedOrderCodes prometheus.Counter
	// BatchDuration observes batch processing time in seconds by kind.
	BatchDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the batch metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		BatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocpulse",
			Name:      "batches_total",
			Help:      "Number of batch runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RequisitionsClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocpulse",
			Name:      "requisitions_classified_total",
			Help:      "Number of requisitions classified by result.",
		}, []string{"result"}),
		UnmatchedOrderCodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ocpulse",
			Name:      "unmatched_order_codes_total",
			Help:      "Number of order codes with no historical match.",
		}),
		BatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ocpulse",
			Name:      "batch_duration_seconds",
			Help:      "Batch processing duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}
