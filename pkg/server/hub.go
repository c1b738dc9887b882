package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is one event pushed to the browser.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

const (
	// writeWait bounds a single WebSocket write.
	writeWait = 5 * time.Second

	// sendBuffer is the number of events queued per connection. A client
	// that falls further behind is disconnected.
	sendBuffer = 32
)

// hubClient is one connection with its outbound queue.
type hubClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *hubClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub fans events out to the WebSocket connections of one session.
// A session may have several tabs open, each with its own connection.
// Emit never blocks on the network: every connection has its own writer.
type Hub struct {
	clients  map[*hubClient]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*hubClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and keeps the connection
// registered until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &hubClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.writeLoop(c)

	// The client never sends anything; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(c)
}

// writeLoop drains the queue of c until it is dropped.
func (h *Hub) writeLoop(c *hubClient) {
	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// Emit queues an event for every connection. It implements
// toast.Emitter.
func (h *Hub) Emit(name string, data any) {
	payload, err := json.Marshal(Message{Event: name, Data: data})
	if err != nil {
		h.logger.Error("event marshal failed", "event", name, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		case <-c.done:
		default:
			h.logger.Warn("websocket client too slow, disconnecting", "event", name)
			h.drop(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*hubClient]bool)
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

func (h *Hub) drop(c *hubClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}
