package preview

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/vango-dev/dropzone/pkg/upload"
)

// ErrUnknown is returned when a URL does not name a live preview.
var ErrUnknown = errors.New("preview: unknown url")

// displayTypes are the raster image types served for display. Anything
// else, SVG included, is served as an opaque download.
var displayTypes = map[string]bool{
	"image/avif": true,
	"image/bmp":  true,
	"image/gif":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Registry maps preview tokens to staged files.
// It is safe for concurrent use.
type Registry struct {
	base     string
	logger   *slog.Logger
	onChange func(active int)

	mu      sync.RWMutex
	entries map[string]*upload.File
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for serve failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithOnChange registers a hook called with the active count after every
// acquire or release.
func WithOnChange(fn func(active int)) Option {
	return func(r *Registry) {
		r.onChange = fn
	}
}

// NewRegistry creates a registry whose URLs live under base.
func NewRegistry(base string, opts ...Option) *Registry {
	r := &Registry{
		base:    strings.TrimSuffix(base, "/"),
		logger:  slog.Default(),
		entries: make(map[string]*upload.File),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire registers f and returns its display URL.
func (r *Registry) Acquire(f *upload.File) string {
	token := newToken()

	r.mu.Lock()
	r.entries[token] = f
	n := len(r.entries)
	r.mu.Unlock()

	r.notify(n)
	return r.base + "/" + token
}

// Release frees the preview behind url. Releasing an unknown or already
// released URL returns ErrUnknown.
func (r *Registry) Release(url string) error {
	token := r.token(url)

	r.mu.Lock()
	_, ok := r.entries[token]
	delete(r.entries, token)
	n := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return ErrUnknown
	}
	r.notify(n)
	return nil
}

// ReleaseAll frees every live preview.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	had := len(r.entries)
	r.entries = make(map[string]*upload.File)
	r.mu.Unlock()

	if had > 0 {
		r.notify(0)
	}
}

// Len returns the number of live previews.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Lookup returns the file behind url.
func (r *Registry) Lookup(url string) (*upload.File, error) {
	r.mu.RLock()
	f, ok := r.entries[r.token(url)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknown
	}
	return f, nil
}

// ServeHTTP serves the bytes of a live preview. The token is the last
// path segment of the request URL.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := req.URL.Path
	token := path[strings.LastIndex(path, "/")+1:]

	r.mu.RLock()
	f, ok := r.entries[token]
	r.mu.RUnlock()
	if !ok {
		http.NotFound(w, req)
		return
	}

	rc, err := f.Open(req.Context())
	if err != nil {
		if errors.Is(err, upload.ErrNotFound) {
			http.NotFound(w, req)
			return
		}
		r.logger.Error("preview open failed", "file", f.Name(), "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	h := w.Header()
	if displayTypes[f.ContentType] {
		h.Set("Content-Type", f.ContentType)
		h.Set("Content-Disposition", "inline")
	} else {
		h.Set("Content-Type", "application/octet-stream")
		h.Set("Content-Disposition", "attachment")
	}
	h.Set("Content-Security-Policy", "sandbox; default-src 'none'")
	h.Set("Cache-Control", "private, no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	if req.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		r.logger.Debug("preview copy interrupted", "file", f.Name(), "error", err)
	}
}

func (r *Registry) token(url string) string {
	return strings.TrimPrefix(url, r.base+"/")
}

func (r *Registry) notify(active int) {
	if r.onChange != nil {
		r.onChange(active)
	}
}

func newToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
