package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/middleware"
	"github.com/vango-dev/dropzone/pkg/upload"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "dz_session"

// Config configures a Server.
type Config struct {
	// BasePath is the mount point of every route. Default: "".
	BasePath string

	// Title is the page title. Default: the widget label.
	Title string

	// Widget is the configuration of every session's widget.
	Widget dropzone.Config

	// Store stages batch content. Default: an in-memory store.
	Store upload.Store

	// MaxRequestSize bounds one batch request in bytes.
	// Default: upload.DefaultMaxRequestSize.
	MaxRequestSize int64

	// ToastLife is how long toasts stay visible. Default: 3 seconds.
	ToastLife time.Duration

	// SessionIdleTimeout is the time after which an idle session is
	// closed and its selection released. Default: 30 minutes.
	SessionIdleTimeout time.Duration

	// CleanupInterval is the time between idle session sweeps.
	// Default: 1 minute.
	CleanupInterval time.Duration

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool

	// Metrics receives request and widget metrics. Nil disables them.
	Metrics *middleware.Metrics

	// Gatherer backs the /metrics endpoint.
	// Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Tracing enables OpenTelemetry request spans.
	Tracing bool

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger
}

// withDefaults returns a copy of c with every zero value defaulted.
func (c Config) withDefaults() Config {
	c.BasePath = strings.TrimSuffix(c.BasePath, "/")
	if c.Store == nil {
		c.Store = upload.NewMemStore(0)
	}
	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = upload.DefaultMaxRequestSize
	}
	if c.ToastLife <= 0 {
		c.ToastLife = 3 * time.Second
	}
	if c.SessionIdleTimeout <= 0 {
		c.SessionIdleTimeout = 30 * time.Minute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Minute
	}
	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Title == "" {
		c.Title = c.Widget.Label
	}
	if c.Title == "" {
		c.Title = "dropzone"
	}
	return c
}
