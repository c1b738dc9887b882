package upload_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vango-dev/dropzone/pkg/upload"
)

type part struct {
	field, filename, body string
}

func newBatchRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			if err := writer.WriteField(p.field, p.body); err != nil {
				t.Fatalf("WriteField: %v", err)
			}
			continue
		}
		w, err := writer.CreateFormFile(p.field, p.filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/file/pick", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestReadBatch_PreservesOrder(t *testing.T) {
	store := upload.NewMemStore(0)
	req := newBatchRequest(t,
		part{"files", "a.pdf", "aaa"},
		part{"note", "", "ignored"},
		part{"files", "b.pdf", "bbbb"},
		part{"other", "c.pdf", "skipped"},
	)

	batch, err := upload.ReadBatch(httptest.NewRecorder(), req, store, upload.BatchConfig{})
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}

	if len(batch) != 2 {
		t.Fatalf("len(batch) = %d, want 2", len(batch))
	}
	if batch[0].Filename != "a.pdf" || batch[1].Filename != "b.pdf" {
		t.Errorf("order = %q, %q", batch[0].Filename, batch[1].Filename)
	}
	if batch[1].Size != 4 {
		t.Errorf("Size = %d, want 4", batch[1].Size)
	}
	if store.Len() != 2 {
		t.Errorf("store.Len() = %d, want 2", store.Len())
	}
}

func TestReadBatch_CustomField(t *testing.T) {
	store := upload.NewMemStore(0)
	req := newBatchRequest(t, part{"attachments", "a.pdf", "a"})

	batch, err := upload.ReadBatch(httptest.NewRecorder(), req, store, upload.BatchConfig{Field: "attachments"})
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if len(batch) != 1 {
		t.Errorf("len(batch) = %d, want 1", len(batch))
	}
}

func TestReadBatch_EmptyBatch(t *testing.T) {
	req := newBatchRequest(t)

	batch, err := upload.ReadBatch(httptest.NewRecorder(), req, upload.NewMemStore(0), upload.BatchConfig{})
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if len(batch) != 0 {
		t.Errorf("len(batch) = %d, want 0", len(batch))
	}
}

func TestReadBatch_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/file/pick", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")

	_, err := upload.ReadBatch(httptest.NewRecorder(), req, upload.NewMemStore(0), upload.BatchConfig{})
	if !errors.Is(err, upload.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	if upload.StatusFor(err) != http.StatusBadRequest {
		t.Errorf("StatusFor = %d", upload.StatusFor(err))
	}
}

func TestReadBatch_StagingCapReleasesPartialBatch(t *testing.T) {
	store := upload.NewMemStore(5)
	req := newBatchRequest(t,
		part{"files", "small.txt", "ok"},
		part{"files", "big.txt", "way too large"},
	)

	_, err := upload.ReadBatch(httptest.NewRecorder(), req, store, upload.BatchConfig{})
	if !errors.Is(err, upload.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if upload.StatusFor(err) != http.StatusRequestEntityTooLarge {
		t.Errorf("StatusFor = %d", upload.StatusFor(err))
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0 after partial release", store.Len())
	}
}

func TestReadBatch_RequestSizeCap(t *testing.T) {
	store := upload.NewMemStore(0)
	req := newBatchRequest(t, part{"files", "a.txt", strings.Repeat("x", 4096)})

	_, err := upload.ReadBatch(httptest.NewRecorder(), req, store, upload.BatchConfig{MaxRequestSize: 512})
	if !errors.Is(err, upload.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", store.Len())
	}
}

func TestReadBatch_OversizedPartsAreMeasuredNotStaged(t *testing.T) {
	store := upload.NewMemStore(0)
	huge := strings.Repeat("x", 64<<10)
	req := newBatchRequest(t,
		part{"files", "small.pdf", "tiny"},
		part{"files", "huge.pdf", huge},
		part{"files", "edge.pdf", strings.Repeat("y", 1024)},
	)

	batch, err := upload.ReadBatch(httptest.NewRecorder(), req, store, upload.BatchConfig{
		Oversized: func(n int64) bool { return n > 1024 },
	})
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("len(batch) = %d, want 3", len(batch))
	}

	big := batch[1]
	if big.Filename != "huge.pdf" || big.Size != int64(len(huge)) {
		t.Errorf("huge handle = %s/%d, want huge.pdf/%d", big.Filename, big.Size, len(huge))
	}
	if big.Staged() || big.ID == "" {
		t.Errorf("huge handle staged=%v id=%q, want unstaged with an id", big.Staged(), big.ID)
	}
	if big.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", big.ContentType)
	}
	if !batch[0].Staged() || !batch[2].Staged() {
		t.Error("parts within the limit must be staged")
	}
	if store.Len() != 2 {
		t.Errorf("store.Len() = %d, want 2", store.Len())
	}
}

func TestReadBatch_DiscardedBytesCountTowardRequestCap(t *testing.T) {
	store := upload.NewMemStore(0)
	req := newBatchRequest(t,
		part{"files", "small.pdf", "tiny"},
		part{"files", "huge.pdf", strings.Repeat("x", 8192)},
	)

	_, err := upload.ReadBatch(httptest.NewRecorder(), req, store, upload.BatchConfig{
		MaxRequestSize: 2048,
		Oversized:      func(n int64) bool { return n > 16 },
	})
	if !errors.Is(err, upload.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", store.Len())
	}
}
