// Package middleware provides HTTP observability middleware for the
// dropzone server.
//
// This package includes:
//   - Prometheus request and widget metrics
//   - OpenTelemetry request tracing
//
// # Prometheus Metrics
//
//	metrics := middleware.NewMetrics(
//	    middleware.WithNamespace("dropzone"),
//	    middleware.WithRegistry(reg),
//	)
//	r.Use(metrics.Handler)
//
// The collected series:
//   - dropzone_requests_total: requests by route, method, and status class
//   - dropzone_request_duration_seconds: request latency by route
//   - dropzone_request_errors_total: 4xx/5xx responses by error type
//   - dropzone_batches_total: picker and drop batches by domain and source
//   - dropzone_files_rejected_total: oversized files by domain
//   - dropzone_removals_total: removed selections by domain
//   - dropzone_previews_active: live image preview URLs
//   - dropzone_sessions_active: live widget sessions
//
// Metrics implements dropzone.Recorder, so a widget can report to it
// directly.
//
// # OpenTelemetry
//
//	r.Use(middleware.Tracing(middleware.WithTracerName("dropzone")))
//
// The tracer comes from the global provider. Handlers reach the request
// span through SpanFromContext(r.Context()).
package middleware
