package dropzone

import "github.com/vango-dev/dropzone/pkg/upload"

// bytesPerMiB converts the configured limit to bytes.
const bytesPerMiB = 1024 * 1024

// Validate reports whether f fits within maxSizeMiB. A file fails only
// when its size strictly exceeds the limit; a nil file passes. Type,
// name, and content are not checked.
func Validate(f *upload.File, maxSizeMiB float64) bool {
	if f == nil {
		return true
	}
	return !Exceeds(f.Size, maxSizeMiB)
}

// Exceeds reports whether size bytes is over maxSizeMiB.
func Exceeds(size int64, maxSizeMiB float64) bool {
	return float64(size) > maxSizeMiB*bytesPerMiB
}
