// Package metrics exposes Prometheus instruments for document processing and validation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"comex/internal/domain"
)

// Metrics records processing outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	processed *prometheus.CounterVec
	issues    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	processed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comex",
			Name:      "documents_processed_total",
			Help:      "Processed documents by type and outcome status.",
		},
		[]string{"document_type", "status"},
	)
	issues := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comex",
			Name:      "validation_issues_total",
			Help:      "Validation findings by type and severity.",
		},
		[]string{"document_type", "severity"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "comex",
			Name:      "processing_duration_seconds",
			Help:      "Time spent combining and validating one document.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"document_type"},
	)

	registry.MustRegister(processed, issues, duration)

	return &Metrics{
		registry:  registry,
		processed: processed,
		issues:    issues,
		duration:  duration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveOutcome records one processed document. status is "failed" when no record was produced.
func (m *Metrics) ObserveOutcome(docType domain.DocumentType, status string, res *domain.ValidationResult, took time.Duration) {
	if m == nil {
		return
	}
	t := string(docType)
	m.processed.WithLabelValues(t, status).Inc()
	m.duration.WithLabelValues(t).Observe(took.Seconds())
	if res == nil {
		return
	}
	if n := len(res.Errors); n > 0 {
		m.issues.WithLabelValues(t, "error").Add(float64(n))
	}
	if n := len(res.Warnings); n > 0 {
		m.issues.WithLabelValues(t, "warning").Add(float64(n))
	}
}
