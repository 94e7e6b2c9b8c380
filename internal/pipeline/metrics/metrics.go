// Package metrics exposes the pipeline's Prometheus instrumentation. All
// methods are nil-receiver safe so wiring metrics stays optional.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requests   *prometheus.CounterVec
	screenings *prometheus.CounterVec
	duration   prometheus.Histogram
	documents  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Scoring requests by release status.",
		}, []string{"status"}),
		screenings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screening_decisions_total",
			Help: "Sanctions screening decisions.",
		}, []string{"decision"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoring_request_duration_seconds",
			Help:    "End-to-end scoring pipeline latency.",
			Buckets: prometheus.DefBuckets,
		}),
		documents: factory.NewCounter(prometheus.CounterOpts{
			Name: "documents_extracted_total",
			Help: "Documents run through OCR field extraction.",
		}),
	}
}

func (m *Metrics) ObserveRequest(status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) ObserveScreening(decision string) {
	if m == nil {
		return
	}
	m.screenings.WithLabelValues(decision).Inc()
}

func (m *Metrics) ObserveDocuments(n int) {
	if m == nil {
		return
	}
	m.documents.Add(float64(n))
}
