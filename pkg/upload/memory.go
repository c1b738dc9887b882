package upload

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

// MemStore stages content in memory.
type MemStore struct {
	maxSize int64

	mu    sync.RWMutex
	files map[string]*memEntry
}

type memEntry struct {
	data      []byte
	createdAt time.Time
}

// NewMemStore creates a MemStore. maxSize caps a single file in bytes (0 = no limit).
func NewMemStore(maxSize int64) *MemStore {
	return &MemStore{
		maxSize: maxSize,
		files:   make(map[string]*memEntry),
	}
}

// Save stores the content in memory.
func (s *MemStore) Save(_ context.Context, filename, contentType string, r io.Reader) (*File, error) {
	sniffed, r, err := sniff(filename, r)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = sniffed
	}

	var buf bytes.Buffer
	if _, err := copyLimited(&buf, r, s.maxSize); err != nil {
		return nil, err
	}

	id := generateID()
	now := time.Now()

	s.mu.Lock()
	s.files[id] = &memEntry{data: buf.Bytes(), createdAt: now}
	s.mu.Unlock()

	f := NewFile(s, id, filename, contentType, int64(buf.Len()))
	f.CreatedAt = now
	return f, nil
}

// Open returns a reader over the staged bytes.
func (s *MemStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	s.mu.RLock()
	entry, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(entry.data)), nil
}

// Delete drops the staged bytes.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.files, id)
	s.mu.Unlock()
	return nil
}

// Cleanup removes entries older than maxAge.
func (s *MemStore) Cleanup(_ context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.files {
		if entry.createdAt.Before(cutoff) {
			delete(s.files, id)
		}
	}
	return nil
}

// Len returns the number of staged files.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
