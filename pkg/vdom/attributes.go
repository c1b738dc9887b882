package vdom

import "strings"

// attr creates an attribute with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Global attributes

func ID(id string) Attr              { return attr("id", id) }
func Class(classes ...string) Attr   { return attr("class", strings.Join(classes, " ")) }
func Data(key, value string) Attr    { return attr("data-"+key, value) }
func Role(role string) Attr          { return attr("role", role) }
func AriaLabel(label string) Attr    { return attr("aria-label", label) }
func AriaSelected(sel bool) Attr     { return attr("aria-selected", sel) }
func AriaLive(mode string) Attr      { return attr("aria-live", mode) }
func Hidden() Attr                   { return attr("hidden", true) }
func Lang(lang string) Attr          { return attr("lang", lang) }
func Key(key string) Attr            { return attr("key", key) }
func TabIndex(index int) Attr        { return attr("tabindex", index) }
func Charset(charset string) Attr    { return attr("charset", charset) }
func Content(content string) Attr    { return attr("content", content) }
func Multiple() Attr                 { return attr("multiple", true) }
func Accept(types string) Attr       { return attr("accept", types) }
func For(id string) Attr             { return attr("for", id) }
func Src(url string) Attr            { return attr("src", url) }
func Alt(text string) Attr           { return attr("alt", text) }
func Loading(mode string) Attr       { return attr("loading", mode) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Conditional attributes

// ClassIf adds the class only when condition is true.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{}
}

// AttrIf returns a when condition is true, an empty attribute otherwise.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}
