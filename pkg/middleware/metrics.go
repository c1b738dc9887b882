package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "dropzone").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "dropzone",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of a server.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	batchesTotal    *prometheus.CounterVec
	filesRejected   *prometheus.CounterVec
	removalsTotal   *prometheus.CounterVec
	previewsActive  prometheus.Gauge
	sessionsActive  prometheus.Gauge
}

// NewMetrics registers the collectors with the configured registry.
// Registering twice with the same registry panics, so build one
// Metrics per registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests handled",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of failed HTTP requests",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		batchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of picker and drop batches",
			ConstLabels: config.ConstLabels,
		}, []string{"domain", "source"}),

		filesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "files_rejected_total",
			Help:        "Total number of files over the size limit",
			ConstLabels: config.ConstLabels,
		}, []string{"domain"}),

		removalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "removals_total",
			Help:        "Total number of files removed from a selection",
			ConstLabels: config.ConstLabels,
		}, []string{"domain"}),

		previewsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "previews_active",
			Help:        "Number of live image preview URLs",
			ConstLabels: config.ConstLabels,
		}),

		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_active",
			Help:        "Number of live widget sessions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Handler is chi-compatible middleware that records request metrics.
// The route label is the chi route pattern, so path parameters don't
// inflate cardinality.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)

		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, r.Method, statusClass(status)).Inc()
		if status >= 400 {
			m.requestErrors.WithLabelValues(route, categorizeStatus(status)).Inc()
		}
	})
}

// RecordBatch records one handled batch.
func (m *Metrics) RecordBatch(domain, source string, accepted, rejected int) {
	m.batchesTotal.WithLabelValues(domain, source).Inc()
	if rejected > 0 {
		m.filesRejected.WithLabelValues(domain).Add(float64(rejected))
	}
}

// RecordRemoval records one removed file.
func (m *Metrics) RecordRemoval(domain string) {
	m.removalsTotal.WithLabelValues(domain).Inc()
}

// SetPreviewsActive sets the live preview count.
func (m *Metrics) SetPreviewsActive(n int) {
	m.previewsActive.Set(float64(n))
}

// RecordSessionCreate records a new session.
func (m *Metrics) RecordSessionCreate() {
	m.sessionsActive.Inc()
}

// RecordSessionDestroy records an expired or closed session.
func (m *Metrics) RecordSessionDestroy() {
	m.sessionsActive.Dec()
}

// routePattern returns the matched chi route, or "unmatched" when the
// request did not hit a route.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// statusClass collapses a status code to "2xx", "4xx", and so on.
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

// categorizeStatus returns a category for a failed response.
// This prevents high-cardinality labels.
func categorizeStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusRequestEntityTooLarge:
		return "too_large"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return "timeout"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status < 500:
		return "validation"
	default:
		return "internal"
	}
}
