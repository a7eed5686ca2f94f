package service

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"bottlescan/internal/core/scan"
	"bottlescan/internal/platform/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 32
)

// Event is one live feed message
type Event struct {
	Type string     `json:"type"`
	Scan *scan.Scan `json:"scan,omitempty"`
}

// Event types
const (
	EventHello  = "hello"
	EventScan   = "scan"
	EventClosed = "closed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// viewers are gated by session id, not origin
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans appended scans out to the session's map viewers
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	log     logger.Logger
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns an empty hub
func NewHub(log logger.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

// Viewers returns the number of connected clients
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and streams events until the client leaves or
// the hub closes
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, EventClosed), time.Now().Add(writeWait))
		return conn.Close()
	}
	h.clients[c] = struct{}{}
	c.send <- encode(Event{Type: EventHello})
	h.mu.Unlock()

	go c.writePump()
	c.readPump()
	return nil
}

// Broadcast queues sc for every viewer. Viewers whose buffer is full are dropped.
func (h *Hub) Broadcast(sc scan.Scan) {
	msg := encode(Event{Type: EventScan, Scan: &sc})
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn().Msg("live viewer too slow, dropping")
			h.dropLocked(c)
		}
	}
}

// Close disconnects every viewer; later Serve calls are refused
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func encode(e Event) []byte {
	b, _ := json.Marshal(e)
	return b
}

// readPump only services control frames; viewers send nothing
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Msg("live viewer read error")
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, EventClosed))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
