// Package toast provides transient notifications for dropzone widgets.
//
// A Queue holds advisories with a fixed lifetime. Showing a toast never
// replaces an earlier one: toasts queue up and expire on their own, and
// the user never has to acknowledge them.
//
// # Delivery
//
// Every Show is handed to an Emitter under the event name
// "dropzone:toast". The server wires the emitter to the session's
// websocket hub, so the browser receives:
//
//	{"type": "dropzone:toast", "data": {"id": 1, "level": "warning",
//	 "summary": "...", "detail": "...", "life": 3000}}
//
// The client-side handler decides how to display it:
//
//	window.addEventListener("dropzone:toast", (e) => {
//	    const { level, summary, detail, life } = e.detail;
//	    showToast(level, summary, detail, life);
//	});
//
// Pending returns the toasts that are still alive, so a full page render
// can include them without a websocket.
package toast
