// Package preview serves display URLs for staged images.
//
// A Registry hands out an opaque URL for a staged file and serves the
// file's bytes at that URL until the URL is released:
//
//	reg := preview.NewRegistry("/dz/preview")
//	url := reg.Acquire(file)   // "/dz/preview/3f9a..."
//	...
//	reg.Release(url)           // GET now returns 404
//
// Every acquired URL must be released. The registry never releases on
// its own; the owner (the widget) does so on removal, replacement, and
// unmount.
package preview
