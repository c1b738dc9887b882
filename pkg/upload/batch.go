package upload

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// DefaultField is the multipart field carrying batch files.
const DefaultField = "files"

// DefaultMaxRequestSize bounds a whole batch request.
const DefaultMaxRequestSize = 512 << 20

// BatchConfig configures ReadBatch.
type BatchConfig struct {
	// Field is the multipart field name. Default: "files".
	Field string

	// MaxRequestSize is the maximum body size in bytes, discarded parts
	// included. Default: 512MiB.
	MaxRequestSize int64

	// Oversized reports whether a part of n bytes is over the caller's
	// size limit. Such a part is counted and discarded instead of staged,
	// and comes back as a handle without content. Nil stages every part.
	Oversized func(n int64) bool
}

// errOversized aborts staging of a part that crossed the size limit.
var errOversized = errors.New("upload: part over size limit")

// limitedPart counts the bytes read from a part and fails once the
// count is oversized.
type limitedPart struct {
	r         io.Reader
	n         int64
	oversized func(int64) bool
}

func (p *limitedPart) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.n += int64(n)
	if n > 0 && p.oversized(p.n) {
		return n, errOversized
	}
	return n, err
}

// ReadBatch streams every file part of a multipart request into store and
// returns the handles in request order. Parts of other fields and parts
// without a filename are skipped. Oversized parts never reach the store;
// their handles carry only name, type and size. If any part fails, the
// files already staged are released and the error is returned.
func ReadBatch(w http.ResponseWriter, r *http.Request, store Store, cfg BatchConfig) ([]*File, error) {
	if cfg.Field == "" {
		cfg.Field = DefaultField
	}
	if cfg.MaxRequestSize <= 0 {
		cfg.MaxRequestSize = DefaultMaxRequestSize
	}

	// SECURITY: Limit request body size BEFORE parsing to prevent DoS
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxRequestSize)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, ErrMalformed
	}

	var batch []*File
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			ReleaseAll(batch)
			return nil, classify(err, true)
		}

		if part.FormName() != cfg.Field || part.FileName() == "" {
			part.Close()
			continue
		}

		f, err := stagePart(r, store, part, cfg.Oversized)
		part.Close()
		if err != nil {
			ReleaseAll(batch)
			return nil, err
		}
		batch = append(batch, f)
	}

	return batch, nil
}

// stagePart saves one part, or measures and discards it when it is
// oversized.
func stagePart(r *http.Request, store Store, part *multipart.Part, oversized func(int64) bool) (*File, error) {
	name := part.FileName()
	if oversized == nil {
		f, err := store.Save(r.Context(), name, "", part)
		if err != nil {
			return nil, classify(err, false)
		}
		return f, nil
	}

	lp := &limitedPart{r: part, oversized: oversized}
	f, err := store.Save(r.Context(), name, "", lp)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, errOversized) {
		return nil, classify(err, false)
	}

	rest, err := io.Copy(io.Discard, part)
	if err != nil {
		return nil, classify(err, true)
	}
	return NewFile(nil, generateID(), name, mime.TypeByExtension(filepath.Ext(name)), lp.n+rest), nil
}

// classify maps body read failures onto the package errors. Parse errors
// are malformed requests; other store errors pass through unchanged.
func classify(err error, parsing bool) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, ErrTooLarge):
		return ErrTooLarge
	case parsing:
		return errors.Join(ErrMalformed, err)
	default:
		return err
	}
}

// StatusFor returns the HTTP status for an error returned by ReadBatch.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMalformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
