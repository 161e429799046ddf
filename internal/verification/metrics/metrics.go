package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module: decision
// volumes per document type and the latency of the accept critical path.
type Metrics struct {
	DocumentsSubmitted *prometheus.CounterVec
	DocumentsVerified  *prometheus.CounterVec
	DocumentsRejected  *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	AcceptDuration     prometheus.Histogram
}

// New creates a Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		DocumentsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docseva_documents_submitted_total",
			Help: "Total documents submitted, by document type",
		}, []string{"document_type"}),
		DocumentsVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docseva_documents_verified_total",
			Help: "Total documents accepted by an officer, by document type",
		}, []string{"document_type"}),
		DocumentsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docseva_documents_rejected_total",
			Help: "Total documents rejected by an officer, by document type",
		}, []string{"document_type"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docseva_validation_failures_total",
			Help: "Accept attempts rejected by field validation, by document type",
		}, []string{"document_type"}),
		AcceptDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "docseva_accept_duration_seconds",
			Help:    "Duration of accept operations (officer decision critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncSubmitted(docType string) {
	m.DocumentsSubmitted.WithLabelValues(docType).Inc()
}

func (m *Metrics) IncVerified(docType string) {
	m.DocumentsVerified.WithLabelValues(docType).Inc()
}

func (m *Metrics) IncRejected(docType string) {
	m.DocumentsRejected.WithLabelValues(docType).Inc()
}

func (m *Metrics) IncValidationFailure(docType string) {
	m.ValidationFailures.WithLabelValues(docType).Inc()
}

// ObserveAccept records the duration of an accept operation. Call with
// time.Now() taken at the start of the operation.
func (m *Metrics) ObserveAccept(start time.Time) {
	m.AcceptDuration.Observe(time.Since(start).Seconds())
}
