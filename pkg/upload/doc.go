// Package upload stages the files a user hands to a dropzone widget.
//
// A picker change or a drop event arrives as one multipart request. Each
// part is streamed into a Store and becomes a *File: an opaque handle with
// a name, a byte size and a reference to the staged content. The widget
// owns the handle until it releases it, at which point the staged bytes
// are deleted from the Store.
//
// # Backends
//
//   - MemStore keeps content in memory (the default; the selection is an
//     in-memory selection)
//   - DiskStore writes content to a temp directory
//   - S3Store keeps content in a bucket under a prefix
//
// Every backend enforces a hard staging cap. That cap bounds memory and
// disk use only; it is not the widget's per-file size limit, which is
// advisory and checked afterwards so that oversized files can still be
// reported to the user.
//
// # Usage
//
//	store := upload.NewMemStore(512 << 20)
//
//	r.Post("/file/drop", func(w http.ResponseWriter, r *http.Request) {
//	    batch, err := upload.ReadBatch(w, r, store, upload.BatchConfig{})
//	    if err != nil {
//	        http.Error(w, err.Error(), upload.StatusFor(err))
//	        return
//	    }
//	    widget.Drop(dropzone.DomainFile, batch)
//	})
//
// # Security
//
// Content types are sniffed server-side (http.DetectContentType) and
// never taken from part headers.
package upload
