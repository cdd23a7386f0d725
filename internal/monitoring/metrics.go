package monitoring

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "phantom_scope"

// Metrics holds application metrics. Each instance owns its own Prometheus
// registry so tests and multiple servers never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	requestCount int64
	errorCount   int64
	startTime    time.Time

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	analysisDuration    *prometheus.HistogramVec
	archetypesAssigned  *prometheus.CounterVec
	aiBuckets           *prometheus.CounterVec
	archetypeConfidence prometheus.Histogram
	analysisErrors      *prometheus.CounterVec
	rateLimited         prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry:  registry,
		startTime: time.Now(),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		analysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Engine time per analysis in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"kind"}),

		archetypesAssigned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "archetypes_assigned_total",
			Help:      "Primary archetypes assigned",
		}, []string{"archetype"}),

		aiBuckets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "ai_bucket_total",
			Help:      "AI usage buckets assigned",
		}, []string{"bucket"}),

		archetypeConfidence: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "archetype_confidence",
			Help:      "Distribution of archetype confidence",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1.0},
		}),

		analysisErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Failed analyses by error category",
		}, []string{"category"}),

		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client limiter",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest records one finished HTTP request. route is the matched
// pattern, never the raw path.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	atomic.AddInt64(&m.requestCount, 1)
	if status >= 400 {
		atomic.AddInt64(&m.errorCount, 1)
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAnalysis records one successful profile analysis.
func (m *Metrics) RecordAnalysis(archetype, bucket string, confidence float64, duration time.Duration) {
	m.analysisDuration.WithLabelValues("profile").Observe(duration.Seconds())
	m.archetypesAssigned.WithLabelValues(archetype).Inc()
	m.aiBuckets.WithLabelValues(bucket).Inc()
	m.archetypeConfidence.Observe(confidence)
}

// RecordTeamAnalysis records one successful team analysis.
func (m *Metrics) RecordTeamAnalysis(duration time.Duration) {
	m.analysisDuration.WithLabelValues("team").Observe(duration.Seconds())
}

func (m *Metrics) RecordAnalysisError(category string) {
	m.analysisErrors.WithLabelValues(category).Inc()
}

func (m *Metrics) RecordRateLimited() {
	m.rateLimited.Inc()
}

// Stats is the small snapshot reported by the health endpoint.
type Stats struct {
	RequestCount  int64   `json:"request_count"`
	ErrorCount    int64   `json:"error_count"`
	ErrorRate     float64 `json:"error_rate"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() Stats {
	requests := atomic.LoadInt64(&m.requestCount)
	errs := atomic.LoadInt64(&m.errorCount)

	stats := Stats{
		RequestCount:  requests,
		ErrorCount:    errs,
		UptimeSeconds: time.Since(m.startTime).Seconds(),
	}
	if requests > 0 {
		stats.ErrorRate = float64(errs) / float64(requests)
	}
	return stats
}
