// Package preview serves the live editing state over HTTP and WebSocket.
//
// The editor publishes a snapshot after every transition. The hub keeps the
// latest one for plain HTTP reads and pushes it to every connected WebSocket
// client. Publishing never blocks: each client has a one-slot queue and a
// newer snapshot replaces one the client has not picked up yet.
package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Message is the JSON form of a snapshot.
type Message struct {
	Version  uint64          `json:"version"`
	Screen   json.RawMessage `json:"screen"`
	Selected string          `json:"selected,omitempty"`
	Theme    string          `json:"theme"`
	Mode     string          `json:"mode"`
}

// NewMessage encodes a snapshot. A session without a document encodes its
// screen as null.
func NewMessage(snap editor.Snapshot) (Message, error) {
	screen := json.RawMessage("null")
	if snap.Screen != nil {
		data, err := json.Marshal(snap.Screen)
		if err != nil {
			return Message{}, err
		}
		screen = data
	}
	return Message{
		Version:  snap.Version,
		Screen:   screen,
		Selected: snap.Selected,
		Theme:    snap.Theme,
		Mode:     snap.Mode.String(),
	}, nil
}

// Hub fans snapshots out to preview clients.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	latest  []byte // encoded Message
	screen  []byte // encoded screen only
	clients map[*client]struct{}
}

// NewHub creates a hub with no snapshot.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Publish stores snap and queues it for every client. It has the shape of
// editor.Observer.
func (h *Hub) Publish(snap editor.Snapshot) {
	msg, err := NewMessage(snap)
	if err != nil {
		logging.Error("Failed to encode preview snapshot", zap.Error(err))
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("Failed to encode preview snapshot", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.latest = data
	h.screen = msg.Screen
	for c := range h.clients {
		c.queue(data)
	}
	h.mu.Unlock()
}

// Latest returns the latest encoded snapshot, or nil before the first publish.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.queue(h.latest)
	}
	return len(h.clients)
}

func (h *Hub) unregister(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	return len(h.clients)
}

// closeAll closes every client connection. Their pumps then unregister them.
func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.conn.Close()
	}
}

// client is one WebSocket connection.
type client struct {
	conn *websocket.Conn
	addr string
	send chan []byte
}

// queue replaces any unsent message with data. Callers hold the hub lock, so
// there is a single producer at a time.
func (c *client) queue(data []byte) {
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- data:
	default:
	}
}

// serveWS upgrades the request and streams snapshots until the peer leaves.
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	c := &client{conn: conn, addr: r.RemoteAddr, send: make(chan []byte, 1)}
	logging.LogPreviewClient(c.addr, "connected", h.register(c))

	done := make(chan struct{})
	go c.readPump(done)
	c.writePump(done)

	logging.LogPreviewClient(c.addr, "disconnected", h.unregister(c))
}

// readPump discards client messages and closes done when the peer goes away.
func (c *client) readPump(done chan<- struct{}) {
	defer close(done)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends queued snapshots and pings until the reader stops.
func (c *client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-done:
			return

		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
