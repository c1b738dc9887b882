package dropzone

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/vango-dev/dropzone/pkg/toast"
	"github.com/vango-dev/dropzone/pkg/upload"
)

// ErrIndexOutOfRange is returned by Remove for a position outside the selection.
var ErrIndexOutOfRange = errors.New("dropzone: index out of range")

// Notifier surfaces transient advisories. *toast.Queue implements it.
type Notifier interface {
	Show(level toast.Type, summary, detail string) toast.Toast
}

// Previewer hands out display URLs for images. *preview.Registry implements it.
type Previewer interface {
	Acquire(f *upload.File) string
	Release(url string) error
}

// Recorder receives widget activity for metrics.
type Recorder interface {
	RecordBatch(domain, source string, accepted, rejected int)
	RecordRemoval(domain string)
}

// Reason says what changed a selection.
type Reason string

const (
	ReasonPick   Reason = "pick"
	ReasonDrop   Reason = "drop"
	ReasonRemove Reason = "remove"
)

// Change is delivered to OnChange listeners after a selection changes.
type Change struct {
	Domain Domain
	Reason Reason

	// Files is a snapshot of the selection after the change.
	Files []*upload.File
}

// Result describes how a batch was handled.
type Result struct {
	Domain Domain
	Source Reason

	// Accepted and Rejected partition the batch after truncation.
	Accepted []*upload.File
	Rejected []*upload.File

	// Truncated is the number of files dropped by single-file mode.
	Truncated int

	// Notified reports whether the size advisory fired.
	Notified bool

	// Ignored reports that the batch left the widget unchanged: the
	// batch was empty or the domain is not configured.
	Ignored bool
}

// entry is one stored file and its preview URL, if any.
type entry struct {
	file    *upload.File
	preview string
}

// Widget is a mounted picker. The zero value is not usable; call New.
type Widget struct {
	cfg       Config
	active    Tab
	stores    [2][]entry
	listeners []func(Change)

	notifier Notifier
	previews Previewer
	recorder Recorder
	logger   *slog.Logger
	basePath string
	closed   bool
}

// Option configures a Widget.
type Option func(*Widget)

// WithNotifier sets where size advisories go.
func WithNotifier(n Notifier) Option {
	return func(w *Widget) { w.notifier = n }
}

// WithPreviews sets the registry that serves image thumbnails.
func WithPreviews(p Previewer) Option {
	return func(w *Widget) { w.previews = p }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(w *Widget) { w.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Widget) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithBasePath sets the route prefix used for event actions.
func WithBasePath(path string) Option {
	return func(w *Widget) { w.basePath = strings.TrimSuffix(path, "/") }
}

// New mounts a widget with cfg.
func New(cfg Config, opts ...Option) *Widget {
	w := &Widget{
		cfg:    cfg.withDefaults(),
		active: TabFile,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Config returns the effective configuration.
func (w *Widget) Config() Config {
	return w.cfg
}

// SetActiveTab switches the visible tab. Selections are never touched.
func (w *Widget) SetActiveTab(tab Tab) {
	w.active = tab
}

// ActiveTab returns the visible tab.
func (w *Widget) ActiveTab() Tab {
	return w.active
}

// Pick handles a batch from the native file picker.
func (w *Widget) Pick(domain Domain, batch []*upload.File) Result {
	return w.ingest(domain, ReasonPick, batch)
}

// Drop handles a batch from a drag-and-drop.
func (w *Widget) Drop(domain Domain, batch []*upload.File) Result {
	return w.ingest(domain, ReasonDrop, batch)
}

// DragOver handles a drag-over event. The client suppresses the browser
// default on its own; the widget has nothing to do.
func (w *Widget) DragOver(Domain) {}

func (w *Widget) ingest(domain Domain, source Reason, batch []*upload.File) Result {
	res := Result{Domain: domain, Source: source}

	files := make([]*upload.File, 0, len(batch))
	for _, f := range batch {
		if f != nil {
			files = append(files, f)
		}
	}

	opts := w.cfg.Options(domain)
	if opts == nil || w.closed {
		upload.ReleaseAll(files)
		res.Ignored = true
		w.logger.Debug("batch ignored", "domain", domain.String(), "files", len(files))
		return res
	}
	if len(files) == 0 {
		res.Ignored = true
		return res
	}

	if opts.SingleFile && len(files) > 1 {
		res.Truncated = len(files) - 1
		upload.ReleaseAll(files[1:])
		files = files[:1]
	}

	for _, f := range files {
		if Validate(f, w.cfg.FileSize) {
			res.Accepted = append(res.Accepted, f)
		} else {
			res.Rejected = append(res.Rejected, f)
		}
	}

	if len(res.Rejected) > 0 && w.notifier != nil {
		w.notifier.Show(toast.TypeWarning, w.cfg.Messages.SizeSummary, w.cfg.Messages.SizeDetail)
		res.Notified = true
	}

	stored := res.Accepted
	if opts.RejectPolicy == RejectKeep {
		stored = files
	} else {
		upload.ReleaseAll(res.Rejected)
	}

	w.replace(domain, stored)

	w.logger.Debug("batch handled",
		"domain", domain.String(),
		"source", string(source),
		"accepted", len(res.Accepted),
		"rejected", len(res.Rejected),
		"truncated", res.Truncated,
	)
	if w.recorder != nil {
		w.recorder.RecordBatch(domain.String(), string(source), len(res.Accepted), len(res.Rejected))
	}
	w.emit(domain, source)
	return res
}

// replace swaps the selection of domain for files, releasing the old one.
func (w *Widget) replace(domain Domain, files []*upload.File) {
	for _, e := range w.stores[domain] {
		w.release(e)
	}

	entries := make([]entry, len(files))
	for i, f := range files {
		entries[i] = entry{file: f}
		if domain == DomainImage && w.previews != nil && f.Staged() {
			entries[i].preview = w.previews.Acquire(f)
		}
	}
	w.stores[domain] = entries
}

func (w *Widget) release(e entry) {
	if e.preview != "" && w.previews != nil {
		if err := w.previews.Release(e.preview); err != nil {
			w.logger.Warn("preview release failed", "url", e.preview, "error", err)
		}
	}
	if err := e.file.Release(); err != nil {
		w.logger.Warn("file release failed", "file", e.file.Name(), "error", err)
	}
}

// Files returns a copy of the selection of domain.
func (w *Widget) Files(domain Domain) []*upload.File {
	if domain != DomainFile && domain != DomainImage {
		return nil
	}
	entries := w.stores[domain]
	files := make([]*upload.File, len(entries))
	for i, e := range entries {
		files[i] = e.file
	}
	return files
}

// Remove deletes the file at index from the selection of domain. The
// order of the remaining files is preserved.
func (w *Widget) Remove(domain Domain, index int) error {
	if domain != DomainFile && domain != DomainImage {
		return ErrIndexOutOfRange
	}
	entries := w.stores[domain]
	if index < 0 || index >= len(entries) {
		return ErrIndexOutOfRange
	}

	removed := entries[index]
	next := make([]entry, 0, len(entries)-1)
	next = append(next, entries[:index]...)
	next = append(next, entries[index+1:]...)
	w.stores[domain] = next

	w.release(removed)

	if w.recorder != nil {
		w.recorder.RecordRemoval(domain.String())
	}
	w.emit(domain, ReasonRemove)
	return nil
}

// OnChange registers a listener called after every selection change.
func (w *Widget) OnChange(fn func(Change)) {
	if fn != nil {
		w.listeners = append(w.listeners, fn)
	}
}

func (w *Widget) emit(domain Domain, reason Reason) {
	if len(w.listeners) == 0 {
		return
	}
	c := Change{Domain: domain, Reason: reason, Files: w.Files(domain)}
	for _, fn := range w.listeners {
		fn(c)
	}
}

// HiddenValue is the value of the hidden form field: the staged IDs of
// the file selection followed by the image selection, comma separated.
func (w *Widget) HiddenValue() string {
	var ids []string
	for _, entries := range w.stores {
		for _, e := range entries {
			ids = append(ids, e.file.ID)
		}
	}
	return strings.Join(ids, ",")
}

// Close unmounts the widget, releasing every stored file and preview.
// Later batches are released on arrival. Close is idempotent.
func (w *Widget) Close() {
	if w.closed {
		return
	}
	w.closed = true
	for d := range w.stores {
		for _, e := range w.stores[d] {
			w.release(e)
		}
		w.stores[d] = nil
	}
	w.listeners = nil
}
