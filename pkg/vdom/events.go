package vdom

// Handler is the value stored in Props for an event. The renderer emits it
// as a data-on-<event> attribute that the thin client binds to.
type Handler interface {
	// Target returns the attribute value the client reads.
	Target() string
}

// Action posts the event to a server route.
type Action string

// Target implements Handler.
func (a Action) Target() string { return string(a) }

// Behavior is a client-side reaction that needs no server round trip.
type Behavior string

// Target implements Handler.
func (b Behavior) Target() string { return "!" + string(b) }

const (
	// PreventDefault suppresses the browser default (drag-over).
	PreventDefault Behavior = "prevent"

	// OpenPicker clicks the file input inside the element.
	OpenPicker Behavior = "open-picker"

	// HoverOn marks the element as a live drop target.
	HoverOn Behavior = "hover-on"

	// HoverOff clears the mark once the drag leaves the element.
	HoverOff Behavior = "hover-off"
)

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "ondrop", etc.
	Handler Handler
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler Handler) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events.
func OnClick(handler Handler) EventHandler { return event("click", handler) }

// OnChange handles change events (picker selection committed).
func OnChange(handler Handler) EventHandler { return event("change", handler) }

// OnDragOver handles dragover events.
func OnDragOver(handler Handler) EventHandler { return event("dragover", handler) }

// OnDragEnter handles dragenter events.
func OnDragEnter(handler Handler) EventHandler { return event("dragenter", handler) }

// OnDragLeave handles dragleave events.
func OnDragLeave(handler Handler) EventHandler { return event("dragleave", handler) }

// OnDrop handles drop events.
func OnDrop(handler Handler) EventHandler { return event("drop", handler) }
