// Package server hosts dropzone widgets over HTTP.
//
// Every browser session owns one widget. The browser loads the page,
// then forwards picker, drop, click, and tab events as small POST
// requests; each response is the re-rendered widget fragment which the
// client swaps in place. Toasts and selection changes are pushed over a
// per-session WebSocket.
//
// # Routes
//
//	GET  /                          full page
//	GET  /widget                    widget fragment
//	POST /tab/{tab}                 switch tab
//	POST /{domain}/pick             picker batch (multipart "files")
//	POST /{domain}/drop             drop batch (multipart "files")
//	POST /{domain}/remove/{index}   remove one selection
//	GET  /events                    WebSocket event stream
//	GET  /preview/{token}           image thumbnails
//	GET  /metrics                   Prometheus metrics
//	GET  /healthz                   liveness
//
// Event handlers of one session run one at a time.
package server
