package scope

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/banshee-data/sweepscope/internal/monitoring"
)

// Hub fans rendered frames out to connected websocket clients. Sends are
// non-blocking: a client that cannot keep up with the frame cadence drops
// frames rather than stalling the renderer.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// clientSendBuffer absorbs short bursts; beyond it frames are dropped for
// that client.
const clientSendBuffer = 8

func newHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// add registers a connection and starts its write pump.
func (h *Hub) add(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	go c.writePump(h)
	return c
}

// remove unregisters a client and closes its send channel. Safe to call more
// than once.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.send)
		delete(h.clients, id)
	}
}

// Broadcast queues a payload for every connected client, skipping any whose
// buffer is full.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// count returns the number of connected clients.
func (h *Hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *client) writePump(h *Hub) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			monitoring.Logf("websocket write to %s failed: %v", c.id, err)
			h.remove(c.id)
			c.conn.Close()
			return
		}
	}
	c.conn.Close()
}
