package upload

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiskStore stages content on the local filesystem.
type DiskStore struct {
	dir     string
	maxSize int64

	mu    sync.RWMutex
	files map[string]time.Time
}

// NewDiskStore creates a new DiskStore.
//
// Parameters:
//   - dir: Directory to stage files in
//   - maxSize: Maximum file size in bytes (0 = no limit)
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &DiskStore{
		dir:     dir,
		maxSize: maxSize,
		files:   make(map[string]time.Time),
	}, nil
}

// Save writes the content to a file named after its staging ID.
func (s *DiskStore) Save(_ context.Context, filename, contentType string, r io.Reader) (*File, error) {
	sniffed, r, err := sniff(filename, r)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = sniffed
	}

	id := generateID()
	path := s.path(id)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	written, err := copyLimited(f, r, s.maxSize)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	now := time.Now()
	s.mu.Lock()
	s.files[id] = now
	s.mu.Unlock()

	file := NewFile(s, id, filename, contentType, written)
	file.CreatedAt = now
	return file, nil
}

// Open opens the staged file for reading.
func (s *DiskStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	s.mu.RLock()
	_, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	f, err := os.Open(s.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete removes the staged file.
func (s *DiskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.files, id)
	s.mu.Unlock()

	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Cleanup removes expired staged files, including orphans left by a
// previous process.
func (s *DiskStore) Cleanup(_ context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, created := range s.files {
		if created.Before(cutoff) {
			delete(s.files, id)
			os.Remove(s.path(id))
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, tracked := s.files[entry.Name()]; tracked {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}

	return nil
}

// Dir returns the staging directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.dir, id)
}
