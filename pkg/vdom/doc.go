// Package vdom provides the virtual DOM the dropzone widget renders into.
//
// The widget builds a VNode tree on the server for every state change and
// package render turns it into HTML. Interactive elements carry an Action
// (the server route the thin client posts the event to) instead of a Go
// callback, so the tree stays a plain value.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("dropzone"), ID("dz-file"),
//	    Span(Text("Select files or drag them here")),
//	    OnDrop(Action("/dz/file/drop")),
//	    OnDragOver(PreventDefault),
//	)
//
// Arguments may be nil (ignored), Attr, []Attr, *VNode, []*VNode,
// Component, string (text shorthand) or EventHandler.
package vdom
