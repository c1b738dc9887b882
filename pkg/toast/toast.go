package toast

import (
	"sync"
	"time"
)

// EventName is the event name dispatched for toasts.
// Client-side code should listen for this event.
const EventName = "dropzone:toast"

// DefaultLife is how long a toast stays visible.
const DefaultLife = 3 * time.Second

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Toast is one queued notification.
type Toast struct {
	ID        uint64        `json:"id"`
	Level     Type          `json:"level"`
	Summary   string        `json:"summary"`
	Detail    string        `json:"detail,omitempty"`
	Life      time.Duration `json:"-"`
	CreatedAt time.Time     `json:"-"`
}

// ExpiresAt returns when the toast disappears.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Life)
}

// Payload returns the event data sent to the client.
func (t Toast) Payload() map[string]any {
	data := map[string]any{
		"id":      t.ID,
		"level":   string(t.Level),
		"summary": t.Summary,
		"life":    t.Life.Milliseconds(),
	}
	if t.Detail != "" {
		data["detail"] = t.Detail
	}
	return data
}

// Emitter receives every toast as a custom event.
type Emitter interface {
	Emit(name string, data any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(name string, data any)

// Emit implements Emitter.
func (f EmitterFunc) Emit(name string, data any) { f(name, data) }

// Option configures a Queue.
type Option func(*Queue)

// WithLife sets the lifetime of every toast.
func WithLife(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.life = d
		}
	}
}

// WithEmitter sets the emitter toasts are dispatched to.
func WithEmitter(e Emitter) Option {
	return func(q *Queue) {
		q.emitter = e
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// Queue is a queue of transient notifications. It is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	items   []Toast
	nextID  uint64
	life    time.Duration
	emitter Emitter
	now     func() time.Time
}

// NewQueue creates a Queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		life: DefaultLife,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetEmitter replaces the emitter.
func (q *Queue) SetEmitter(e Emitter) {
	q.mu.Lock()
	q.emitter = e
	q.mu.Unlock()
}

// Show enqueues a toast and emits it.
func (q *Queue) Show(level Type, summary, detail string) Toast {
	q.mu.Lock()
	q.pruneLocked()
	q.nextID++
	t := Toast{
		ID:        q.nextID,
		Level:     level,
		Summary:   summary,
		Detail:    detail,
		Life:      q.life,
		CreatedAt: q.now(),
	}
	q.items = append(q.items, t)
	emitter := q.emitter
	q.mu.Unlock()

	if emitter != nil {
		emitter.Emit(EventName, t.Payload())
	}
	return t
}

// Pending returns the toasts that have not expired, oldest first.
func (q *Queue) Pending() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pruneLocked()
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of live toasts.
func (q *Queue) Len() int {
	return len(q.Pending())
}

// pruneLocked drops expired toasts. Toasts share one lifetime, so the
// expired ones always form a prefix.
func (q *Queue) pruneLocked() {
	now := q.now()
	i := 0
	for i < len(q.items) && !now.Before(q.items[i].ExpiresAt()) {
		i++
	}
	if i > 0 {
		q.items = append(q.items[:0], q.items[i:]...)
	}
}
