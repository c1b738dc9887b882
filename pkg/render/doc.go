// Package render turns vdom trees into HTML.
//
// It handles escaping of text and attribute values, void elements,
// boolean attributes, and event handlers. Handlers are not rendered as
// inline JavaScript: each one becomes a data-on-<event> attribute whose
// value is the server route (or client behavior) the thin client binds:
//
//	<div class="dropzone" data-on-drop="/dz/file/drop" data-on-dragover="!prevent">
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(widget.Render())
//
// # Full Page Rendering
//
//	err := render.RenderPage(w, render.PageData{
//	    Title:        "Attachments",
//	    Body:         widget.Render(),
//	    ClientScript: dropzone.ClientScript,
//	})
package render
