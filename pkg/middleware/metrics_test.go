package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func newTestRouter(m *Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Post("/{domain}/remove/{index}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/{domain}/drop", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.Get("/implicit", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return r
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	h := newTestRouter(m)

	for _, path := range []string{"/file/remove/0", "/image/remove/3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/file/drop", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/implicit", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"remove 2xx", metricCounterValue(t, m.requestsTotal.WithLabelValues("/{domain}/remove/{index}", "POST", "2xx")), 2},
		{"drop 4xx", metricCounterValue(t, m.requestsTotal.WithLabelValues("/{domain}/drop", "POST", "4xx")), 1},
		{"boom 5xx", metricCounterValue(t, m.requestsTotal.WithLabelValues("/boom", "GET", "5xx")), 1},
		{"implicit 200", metricCounterValue(t, m.requestsTotal.WithLabelValues("/implicit", "GET", "2xx")), 1},
		{"too large error", metricCounterValue(t, m.requestErrors.WithLabelValues("/{domain}/drop", "too_large")), 1},
		{"internal error", metricCounterValue(t, m.requestErrors.WithLabelValues("/boom", "internal")), 1},
		{"unmatched", metricCounterValue(t, m.requestErrors.WithLabelValues("unmatched", "not_found")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n := metricHistogramCount(t, m.requestDuration.WithLabelValues("/{domain}/remove/{index}")); n != 2 {
		t.Errorf("duration samples = %d, want 2", n)
	}
}

func TestWidgetRecorders(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.RecordBatch("file", "drop", 1, 2)
	m.RecordBatch("file", "drop", 3, 0)
	m.RecordBatch("image", "pick", 0, 1)
	m.RecordRemoval("image")
	m.SetPreviewsActive(4)
	m.RecordSessionCreate()
	m.RecordSessionCreate()
	m.RecordSessionDestroy()

	if v := metricCounterValue(t, m.batchesTotal.WithLabelValues("file", "drop")); v != 2 {
		t.Errorf("file drop batches = %v", v)
	}
	if v := metricCounterValue(t, m.filesRejected.WithLabelValues("file")); v != 2 {
		t.Errorf("file rejected = %v", v)
	}
	if v := metricCounterValue(t, m.filesRejected.WithLabelValues("image")); v != 1 {
		t.Errorf("image rejected = %v", v)
	}
	if v := metricCounterValue(t, m.removalsTotal.WithLabelValues("image")); v != 1 {
		t.Errorf("removals = %v", v)
	}
	if v := metricGaugeValue(t, m.previewsActive); v != 4 {
		t.Errorf("previews = %v", v)
	}
	if v := metricGaugeValue(t, m.sessionsActive); v != 1 {
		t.Errorf("sessions = %v", v)
	}
}

func TestCategorizeStatus(t *testing.T) {
	tests := map[int]string{
		404: "not_found",
		413: "too_large",
		405: "method_not_allowed",
		504: "timeout",
		429: "rate_limit",
		400: "validation",
		500: "internal",
	}
	for status, want := range tests {
		if got := categorizeStatus(status); got != want {
			t.Errorf("categorizeStatus(%d) = %q, want %q", status, got, want)
		}
	}
}
