package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the exchange service.
type Metrics struct {
	Submissions      *prometheus.CounterVec
	PhaseFailures    *prometheus.CounterVec
	OrphanedContacts prometheus.Counter
	ValidationErrors *prometheus.CounterVec
	ViewCacheLookups *prometheus.CounterVec
	EndpointLatency  *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lowa_submissions_total",
			Help: "Submissions by kind and outcome",
		}, []string{"kind", "outcome"}),
		PhaseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lowa_submission_phase_failures_total",
			Help: "Failed submission phases (contact or record write)",
		}, []string{"kind", "phase"}),
		OrphanedContacts: factory.NewCounter(prometheus.CounterOpts{
			Name: "lowa_orphaned_contacts_total",
			Help: "Contacts persisted whose owning record write failed",
		}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lowa_validation_errors_total",
			Help: "Submissions rejected before any write",
		}, []string{"kind"}),
		ViewCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lowa_view_cache_lookups_total",
			Help: "Public view cache lookups by result",
		}, []string{"collection", "result"}),
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lowa_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncSubmission(kind, outcome string) {
	m.Submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncPhaseFailure(kind, phase string) {
	m.PhaseFailures.WithLabelValues(kind, phase).Inc()
}

func (m *Metrics) IncOrphanedContact() {
	m.OrphanedContacts.Inc()
}

func (m *Metrics) IncValidationError(kind string) {
	m.ValidationErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordCacheLookup(collection string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ViewCacheLookups.WithLabelValues(collection, result).Inc()
}

func (m *Metrics) ObserveEndpoint(method, route, status string, d time.Duration) {
	m.EndpointLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
}
