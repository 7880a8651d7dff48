package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/pageroutes/pkg/routes"
)

// MessageType is the type of a WebSocket message.
type MessageType string

const (
	MessageRoutes MessageType = "routes"
	MessageError  MessageType = "error"
)

// Message is sent to WebSocket clients.
type Message struct {
	Type   MessageType
	Source routes.Source
	Routes []*routes.RouteNode
	Code   string
	Error  string
}

// MarshalJSON writes only the fields of the message type. A routes message
// always carries a "routes" array, even when the table is empty.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Type == MessageRoutes {
		table := m.Routes
		if table == nil {
			table = []*routes.RouteNode{}
		}
		return json.Marshal(struct {
			Type   MessageType         `json:"type"`
			Source routes.Source       `json:"source,omitempty"`
			Routes []*routes.RouteNode `json:"routes"`
		}{m.Type, m.Source, table})
	}
	return json.Marshal(struct {
		Type  MessageType `json:"type"`
		Code  string      `json:"code,omitempty"`
		Error string      `json:"error"`
	}{m.Type, m.Code, m.Error})
}

const writeWait = 5 * time.Second

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections and broadcasts route updates.
type Hub struct {
	clients  map[*client]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// current returns the message sent to a client right after it connects.
	current func() Message

	// onCount is called with the client count after every change.
	onCount func(int)
}

// NewHub creates a hub. current may be nil.
func NewHub(logger *slog.Logger, current func() Message) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		current: current,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // dev server
			},
		},
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}

	// Holding the client lock until the current state is written keeps a
	// concurrent broadcast from overtaking it.
	c.mu.Lock()
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	var sendErr error
	if h.current != nil {
		var data []byte
		data, sendErr = json.Marshal(h.current())
		if sendErr == nil {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			sendErr = conn.WriteMessage(websocket.TextMessage, data)
		}
	}
	c.mu.Unlock()

	if sendErr != nil {
		h.logger.Warn("websocket initial send failed", "error", sendErr)
		h.remove(c)
		return
	}
	h.notifyCount(count)
	h.logger.Debug("websocket client connected", "remote", req.RemoteAddr, "clients", count)

	// Incoming messages are ignored; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
}

// Broadcast sends msg to every connected client.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode websocket message", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	c.conn.Close()
	if ok {
		h.notifyCount(count)
	}
}

func (h *Hub) notifyCount(n int) {
	if h.onCount != nil {
		h.onCount(n)
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
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.conn.Close()
	}
	h.notifyCount(0)
}
