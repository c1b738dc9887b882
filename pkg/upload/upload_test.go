package upload_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/dropzone/pkg/upload"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestMemStore_SaveOpenRelease(t *testing.T) {
	store := upload.NewMemStore(0)
	ctx := context.Background()

	f, err := store.Save(ctx, "report.pdf", "", strings.NewReader("%PDF-1.7 body"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if f.Filename != "report.pdf" {
		t.Errorf("Filename = %q", f.Filename)
	}
	if f.Size != int64(len("%PDF-1.7 body")) {
		t.Errorf("Size = %d", f.Size)
	}
	if f.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q, want application/pdf", f.ContentType)
	}

	rc, err := f.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF-1.7 body" {
		t.Errorf("content = %q", data)
	}

	if err := f.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !f.Released() {
		t.Error("Released() should be true")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after release, want 0", store.Len())
	}
	if _, err := f.Open(ctx); err != upload.ErrNotFound {
		t.Errorf("Open after release = %v, want ErrNotFound", err)
	}

	// Second release is a no-op.
	if err := f.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
}

func TestMemStore_SniffsImages(t *testing.T) {
	store := upload.NewMemStore(0)

	f, err := store.Save(context.Background(), "photo.bin", "", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if f.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", f.ContentType)
	}
	if !f.IsImage() {
		t.Error("IsImage() should be true")
	}
}

func TestMemStore_SizeLimitExceeded(t *testing.T) {
	store := upload.NewMemStore(10)

	_, err := store.Save(context.Background(), "big.txt", "", strings.NewReader("this is more than 10 bytes"))
	if err != upload.ErrTooLarge {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestMemStore_Cleanup(t *testing.T) {
	store := upload.NewMemStore(0)
	ctx := context.Background()

	if _, err := store.Save(ctx, "a.txt", "", strings.NewReader("a")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := store.Cleanup(ctx, time.Nanosecond); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after cleanup, want 0", store.Len())
	}
}

func TestFile_WithoutStore(t *testing.T) {
	f := upload.NewFile(nil, "id1", "notes.pdf", "application/pdf", 42)

	if f.Name() != "notes.pdf" {
		t.Errorf("Name() = %q", f.Name())
	}
	if err := f.Release(); err != nil {
		t.Errorf("Release: %v", err)
	}
	if _, err := f.Open(context.Background()); err != upload.ErrNotFound {
		t.Errorf("Open = %v, want ErrNotFound", err)
	}

	var nilFile *upload.File
	if nilFile.Name() != "" || nilFile.IsImage() || nilFile.Released() {
		t.Error("nil file accessors should return zero values")
	}
}

func TestReleaseAll(t *testing.T) {
	store := upload.NewMemStore(0)
	ctx := context.Background()

	var files []*upload.File
	for _, name := range []string{"a", "b", "c"} {
		f, err := store.Save(ctx, name, "", strings.NewReader(name))
		if err != nil {
			t.Fatal(err)
		}
		files = append(files, f)
	}

	if err := upload.ReleaseAll(files); err != nil {
		t.Fatalf("ReleaseAll: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestDiskStore_SaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := upload.NewDiskStore(dir, 0)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	content := []byte("hello, world")
	f, err := store.Save(ctx, "test.txt", "", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, f.ID)); err != nil {
		t.Fatalf("staged file missing: %v", err)
	}

	rc, err := f.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(data, content) {
		t.Errorf("content = %q, want %q", data, content)
	}

	if err := f.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, f.ID)); !os.IsNotExist(err) {
		t.Error("file should be deleted after release")
	}
}

func TestDiskStore_OpenNotFound(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 0)

	_, err := store.Open(context.Background(), "nonexistent")
	if err != upload.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskStore_SizeLimitExceeded(t *testing.T) {
	dir := t.TempDir()
	store, _ := upload.NewDiskStore(dir, 10) // 10 byte limit

	_, err := store.Save(context.Background(), "big.txt", "", strings.NewReader("this is more than 10 bytes"))
	if err != upload.ErrTooLarge {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no leftover files, got %d", len(entries))
	}
}

func TestDiskStore_CleanupRemovesOrphans(t *testing.T) {
	dir := t.TempDir()
	store, _ := upload.NewDiskStore(dir, 0)
	ctx := context.Background()

	f, _ := store.Save(ctx, "temp.txt", "", strings.NewReader("temp data"))

	orphan := filepath.Join(dir, "orphan")
	if err := os.WriteFile(orphan, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := store.Cleanup(ctx, time.Nanosecond); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, f.ID)); !os.IsNotExist(err) {
		t.Error("staged file should be deleted after cleanup")
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Error("orphan should be deleted after cleanup")
	}
}
