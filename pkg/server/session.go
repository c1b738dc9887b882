package server

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/toast"
	"github.com/vango-dev/dropzone/pkg/upload"
)

// ChangeEvent is the event name pushed after a selection change.
const ChangeEvent = "dropzone:change"

// Session is one browser's widget together with its notification queue
// and event hub.
type Session struct {
	ID string

	Widget *dropzone.Widget
	Toasts *toast.Queue
	Hub    *Hub

	mu       sync.Mutex
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's widget.
func (s *Session) Do(fn func(w *dropzone.Widget)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.Widget)
}

// LastSeen returns when the session last handled an event.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.mu.Lock()
	s.Widget.Close()
	s.mu.Unlock()
	s.Hub.Close()
}

// SessionManager owns every live session.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	newSession func(id string) *Session

	// Callbacks
	onSessionCreate func(*Session)
	onSessionClose  func(*Session)

	logger *slog.Logger
}

// NewSessionManager creates a manager. factory builds the session for a
// fresh ID.
func NewSessionManager(factory func(id string) *Session, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions:   make(map[string]*Session),
		newSession: factory,
		logger:     logger.With("component", "session_manager"),
	}
}

// Get returns the session with id.
func (sm *SessionManager) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	return s, ok
}

// Create starts a new session.
func (sm *SessionManager) Create() *Session {
	s := sm.newSession(generateSessionID())
	s.lastSeen = time.Now()

	sm.mu.Lock()
	sm.sessions[s.ID] = s
	count := len(sm.sessions)
	sm.mu.Unlock()

	if sm.onSessionCreate != nil {
		sm.onSessionCreate(s)
	}
	sm.logger.Info("session created", "session_id", s.ID, "active_sessions", count)
	return s
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Sweep closes every session idle for longer than maxIdle and returns
// how many were closed. Closing a session releases its selection.
func (sm *SessionManager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	sm.mu.RLock()
	var expired []*Session
	for _, s := range sm.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
		}
	}
	sm.mu.RUnlock()

	for _, s := range expired {
		sm.remove(s, "idle")
	}
	return len(expired)
}

// Close closes every session.
func (sm *SessionManager) Close() {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	for _, s := range sessions {
		sm.remove(s, "shutdown")
	}
}

func (sm *SessionManager) remove(s *Session, reason string) {
	sm.mu.Lock()
	if _, ok := sm.sessions[s.ID]; !ok {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, s.ID)
	sm.mu.Unlock()

	s.close()
	if sm.onSessionClose != nil {
		sm.onSessionClose(s)
	}
	sm.logger.Info("session closed", "session_id", s.ID, "reason", reason)
}

func generateSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// changePayload is the event data of a selection change.
func changePayload(c dropzone.Change) map[string]any {
	files := make([]map[string]any, len(c.Files))
	for i, f := range c.Files {
		files[i] = fileInfo(f)
	}
	return map[string]any{
		"domain": c.Domain.String(),
		"reason": string(c.Reason),
		"files":  files,
	}
}

func fileInfo(f *upload.File) map[string]any {
	return map[string]any{
		"id":          f.ID,
		"name":        f.Name(),
		"size":        f.Size,
		"contentType": f.ContentType,
	}
}
