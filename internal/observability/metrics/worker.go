package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics observes verification task outcomes. It satisfies the
// verification recorder port.
type WorkerMetrics struct {
	service  string
	registry *prometheus.Registry

	verifyTotal    *prometheus.CounterVec
	verifyDuration *prometheus.HistogramVec
	scores         prometheus.Histogram
	queueLag       prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	verifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "worker",
			Name:      "verifications_total",
			Help:      "Total verification runs by outcome.",
		},
		[]string{"service", "outcome"},
	)
	verifyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "heritage",
			Subsystem: "worker",
			Name:      "verification_duration_seconds",
			Help:      "Verification run duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	scores := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "heritage",
			Subsystem: "worker",
			Name:      "authenticity_score",
			Help:      "Distribution of computed authenticity scores.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "heritage",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between submission upload and verification start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 3, 5, 8, 13, 30, 60, 120},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(verifyTotal, verifyDuration, scores, queueLag)

	return &WorkerMetrics{
		service:        service,
		registry:       registry,
		verifyTotal:    verifyTotal,
		verifyDuration: verifyDuration,
		scores:         scores,
		queueLag:       queueLag,
	}
}

// Registry exposes the underlying registry for co-hosting with other
// gatherers.
func (m *WorkerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) RecordOutcome(outcome string, score int, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.verifyTotal.WithLabelValues(m.service, outcome).Inc()
	m.verifyDuration.WithLabelValues(m.service, outcome).Observe(duration.Seconds())
	if outcome == "verified" || outcome == "review" || outcome == "rejected" {
		m.scores.Observe(float64(score))
	}
}

func (m *WorkerMetrics) RecordQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}
