// Package observability provides Prometheus metrics for the analysis pipeline.
package observability

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subghzlab/subscan-go/internal/errors"
)

// Metrics holds the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	CapturesAnalyzed *prometheus.CounterVec
	ParseErrors      prometheus.Counter
	Identifications  *prometheus.CounterVec
	Classifications  *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
}

// NewMetrics creates the metric collectors on a fresh registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CapturesAnalyzed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscan_captures_analyzed_total",
				Help: "Total number of capture files analyzed, partitioned by result status.",
			},
			[]string{"status"},
		),
		ParseErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "subscan_parse_errors_total",
				Help: "Total number of capture files that failed to parse.",
			},
		),
		Identifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscan_identifications_total",
				Help: "Total number of protocol identifications partitioned by protocol name.",
			},
			[]string{"protocol"},
		),
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscan_classifications_total",
				Help: "Total number of signal classifications partitioned by signal type.",
			},
			[]string{"signal_type"},
		),
		AnalysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "subscan_analysis_duration_seconds",
				Help:    "Time taken to analyze a single capture file.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
			},
		),
	}

	collectors := []prometheus.Collector{
		m.CapturesAnalyzed,
		m.ParseErrors,
		m.Identifications,
		m.Classifications,
		m.AnalysisDuration,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryConfiguration).
				Context("operation", "register_metrics").
				Build()
		}
	}

	return m, nil
}

// RecordAnalysis records the outcome of one capture analysis.
func (m *Metrics) RecordAnalysis(protocol, signalType string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CapturesAnalyzed.WithLabelValues("ok").Inc()
	m.Identifications.WithLabelValues(protocol).Inc()
	m.Classifications.WithLabelValues(signalType).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

// RecordFailure records a capture file that could not be analyzed.
func (m *Metrics) RecordFailure() {
	if m == nil {
		return
	}
	m.CapturesAnalyzed.WithLabelValues("error").Inc()
	m.ParseErrors.Inc()
}

// RegisterHandlers registers the metrics endpoint with the provided mux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/metrics", m.metricsHandler)
}

func (m *Metrics) metricsHandler(w http.ResponseWriter, r *http.Request) {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
	h.ServeHTTP(w, r)
}
