package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

func TestTracingStoresSpan(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Tracing(
		WithTracerName("test"),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	called := false
	r.Get("/widget", func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SpanFromContext(r.Context()) == nil {
			t.Error("expected SpanFromContext to return a span during the request")
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widget", nil))

	if !called {
		t.Fatal("handler not called")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTracingFilterSkips(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Tracing(WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	})))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if SpanFromContext(r.Context()) != nil {
			t.Error("expected no span when the filter skips tracing")
		}
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
}

func TestSpanFromContextNoSpan(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if SpanFromContext(req.Context()) != nil {
		t.Fatal("expected nil span when no span is stored")
	}
}
