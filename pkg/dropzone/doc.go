// Package dropzone implements a file and image picker widget.
//
// A Widget owns two independent selections, one per Domain (generic
// files and images). Batches delivered by the native picker or by a
// drag-and-drop are truncated in single-file mode, validated against
// the configured size limit, and replace the domain's selection. A
// batch with oversized files triggers a single advisory notification.
//
// # Lifecycle
//
//	w := dropzone.New(cfg,
//	    dropzone.WithNotifier(queue),
//	    dropzone.WithPreviews(registry),
//	)
//	defer w.Close()
//
//	w.OnChange(func(c dropzone.Change) { ... })
//	w.Drop(dropzone.DomainFile, batch)
//	node := w.Render()
//
// The widget is not safe for concurrent use. Callers that share a
// widget between goroutines must serialize access to it.
//
// # Ownership
//
// Files passed to Pick and Drop belong to the widget from then on. Files
// that are not stored (truncated, or rejected under RejectDrop) are
// released immediately; stored files are released when they are
// removed, replaced by a later batch, or when the widget is closed.
package dropzone
