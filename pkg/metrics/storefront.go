package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by storefront metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeStale    = "stale"
)

// StorefrontMetrics records catalog loads and order submissions of a client session.
type StorefrontMetrics struct {
	catalogLoads       *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	cartMutations      *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	catalogLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_loads_total",
		Help: "Catalog fetches by outcome.",
	}, []string{"outcome"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_submissions_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	submissionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_order_submission_duration_seconds",
		Help:    "Round trip time of order submissions.",
		Buckets: prometheus.DefBuckets,
	})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(catalogLoads, submissions, submissionDuration, cartMutations)
	return &StorefrontMetrics{
		catalogLoads:       catalogLoads,
		submissions:        submissions,
		submissionDuration: submissionDuration,
		cartMutations:      cartMutations,
	}
}

func (m *StorefrontMetrics) IncCatalogLoad(outcome string) {
	if m == nil || m.catalogLoads == nil {
		return
	}
	m.catalogLoads.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *StorefrontMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *StorefrontMetrics) ObserveSubmission(duration time.Duration) {
	if m == nil || m.submissionDuration == nil {
		return
	}
	m.submissionDuration.Observe(duration.Seconds())
}

func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
