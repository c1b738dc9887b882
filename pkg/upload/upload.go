package upload

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"
)

// ErrNotFound is returned when a staged file doesn't exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrTooLarge is returned when content exceeds the staging cap.
var ErrTooLarge = errors.New("upload: file too large")

// ErrMalformed is returned when a batch request cannot be parsed.
var ErrMalformed = errors.New("upload: malformed batch")

// Store is the interface for staging backends.
type Store interface {
	// Save streams r into the store and returns a handle for it.
	Save(ctx context.Context, filename, contentType string, r io.Reader) (*File, error)

	// Open returns the staged content of id.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// Delete removes the staged content of id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes content older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// File is a handle to a staged file.
type File struct {
	// ID is the unique identifier of the staged content.
	ID string

	// Filename is the original filename from the client.
	Filename string

	// ContentType is the sniffed MIME type.
	ContentType string

	// Size is the file size in bytes.
	Size int64

	// CreatedAt is when the content was staged.
	CreatedAt time.Time

	store    Store
	released atomic.Bool
}

// NewFile builds a handle backed by store. A nil store yields a handle
// without content, which is useful for metadata-only callers.
func NewFile(store Store, id, filename, contentType string, size int64) *File {
	return &File{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		CreatedAt:   time.Now(),
		store:       store,
	}
}

// Name returns the original filename.
func (f *File) Name() string {
	if f == nil {
		return ""
	}
	return f.Filename
}

// IsImage reports whether the sniffed content type is an image.
func (f *File) IsImage() bool {
	return f != nil && len(f.ContentType) >= 6 && f.ContentType[:6] == "image/"
}

// Open returns a reader over the staged content.
func (f *File) Open(ctx context.Context) (io.ReadCloser, error) {
	if f == nil || f.store == nil || f.released.Load() {
		return nil, ErrNotFound
	}
	return f.store.Open(ctx, f.ID)
}

// Release deletes the staged content. It is safe to call more than once.
func (f *File) Release() error {
	if f == nil || f.store == nil {
		return nil
	}
	if !f.released.CompareAndSwap(false, true) {
		return nil
	}
	return f.store.Delete(context.Background(), f.ID)
}

// Staged reports whether f has content behind it. Handles for discarded
// parts and metadata-only handles are not staged.
func (f *File) Staged() bool {
	return f != nil && f.store != nil
}

// Released reports whether Release has been called.
func (f *File) Released() bool {
	return f != nil && f.released.Load()
}

// ReleaseAll releases every file and returns the first error.
func ReleaseAll(files []*File) error {
	var first error
	for _, f := range files {
		if err := f.Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// sniffLen is the number of bytes http.DetectContentType considers.
const sniffLen = 512

// sniff reads the head of r and returns its content type together with a
// reader that replays the head.
func sniff(filename string, r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if contentType == "application/octet-stream" || contentType == "application/zip" || contentType == "text/plain; charset=utf-8" {
		// Office formats sniff as zip or octet-stream; the extension is more specific.
		if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
			contentType = byExt
		}
	}

	return contentType, io.MultiReader(bytes.NewReader(head), r), nil
}

// copyLimited copies r into w, failing with ErrTooLarge past maxSize bytes.
// A maxSize of 0 means no limit.
func copyLimited(w io.Writer, r io.Reader, maxSize int64) (int64, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1) // +1 to detect overflow
	}
	written, err := io.Copy(w, r)
	if err != nil {
		return written, err
	}
	if maxSize > 0 && written > maxSize {
		return written, ErrTooLarge
	}
	return written, nil
}

// generateID generates a cryptographically random staging ID.
func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
