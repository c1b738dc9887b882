package server

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/middleware"
	"github.com/vango-dev/dropzone/pkg/preview"
	"github.com/vango-dev/dropzone/pkg/toast"
)

// Server hosts one widget per browser session.
type Server struct {
	config   Config
	sessions *SessionManager
	previews *preview.Registry
	router   chi.Router
	logger   *slog.Logger

	startOnce   sync.Once
	stopOnce    sync.Once
	started     atomic.Bool
	done        chan struct{}
	cleanupDone chan struct{}
}

// New creates a server. Call Start to begin idle session cleanup and
// Shutdown to release everything.
func New(config Config) *Server {
	config = config.withDefaults()

	s := &Server{
		config:      config,
		logger:      config.Logger.With("component", "server"),
		done:        make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}

	previewOpts := []preview.Option{preview.WithLogger(s.logger)}
	if config.Metrics != nil {
		previewOpts = append(previewOpts, preview.WithOnChange(config.Metrics.SetPreviewsActive))
	}
	s.previews = preview.NewRegistry(config.BasePath+"/preview", previewOpts...)

	s.sessions = NewSessionManager(s.buildSession, config.Logger)
	if config.Metrics != nil {
		s.sessions.onSessionCreate = func(*Session) { config.Metrics.RecordSessionCreate() }
		s.sessions.onSessionClose = func(*Session) { config.Metrics.RecordSessionDestroy() }
	}

	s.router = s.routes()
	return s
}

// buildSession wires a fresh widget to its toast queue, event hub,
// preview registry, and metrics.
func (s *Server) buildSession(id string) *Session {
	logger := s.config.Logger.With("session_id", id)
	hub := NewHub(logger)
	queue := toast.NewQueue(toast.WithLife(s.config.ToastLife), toast.WithEmitter(hub))

	opts := []dropzone.Option{
		dropzone.WithNotifier(queue),
		dropzone.WithPreviews(s.previews),
		dropzone.WithLogger(logger),
		dropzone.WithBasePath(s.config.BasePath),
	}
	if s.config.Metrics != nil {
		opts = append(opts, dropzone.WithRecorder(s.config.Metrics))
	}

	widget := dropzone.New(s.config.Widget, opts...)
	widget.OnChange(func(c dropzone.Change) {
		hub.Emit(ChangeEvent, changePayload(c))
	})

	return &Session{ID: id, Widget: widget, Toasts: queue, Hub: hub}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	if s.config.Metrics != nil {
		r.Use(s.config.Metrics.Handler)
	}
	if s.config.Tracing {
		r.Use(middleware.Tracing(middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != s.config.BasePath+"/healthz"
		})))
	}

	mount := func(r chi.Router) {
		r.Get("/", s.handlePage)
		r.Get("/widget", s.handleWidget)
		r.Post("/tab/{tab}", s.handleTab)
		r.Post("/{domain}/pick", s.handleBatch(dropzone.ReasonPick))
		r.Post("/{domain}/drop", s.handleBatch(dropzone.ReasonDrop))
		r.Post("/{domain}/remove/{index}", s.handleRemove)
		r.Get("/events", s.handleEvents)
		r.Method(http.MethodGet, "/preview/{token}", s.previews)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
		r.Get("/healthz", s.handleHealth)
	}

	if s.config.BasePath == "" {
		mount(r)
	} else {
		r.Route(s.config.BasePath, mount)
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Previews returns the preview registry.
func (s *Server) Previews() *preview.Registry {
	return s.previews
}

// Start begins the idle session sweep. It returns immediately.
func (s *Server) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.cleanupLoop()
	})
}

func (s *Server) cleanupLoop() {
	defer close(s.cleanupDone)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.sessions.Sweep(s.config.SessionIdleTimeout); n > 0 {
				s.logger.Info("idle sessions closed", "count", n)
			}
		case <-s.done:
			return
		}
	}
}

// Shutdown stops the sweep and closes every session, releasing all
// staged files and previews.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		s.startOnce.Do(func() {}) // a late Start is a no-op
		close(s.done)
		if s.started.Load() {
			<-s.cleanupDone
		}

		s.sessions.Close()
		s.previews.ReleaseAll()
		s.logger.Info("server stopped")
	})
}

// logRequests logs every request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		level := slog.LevelDebug
		if ww.Status() >= 500 {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
