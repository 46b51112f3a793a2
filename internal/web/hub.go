package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	appLog "eventflow/internal/log"
	"eventflow/internal/model"
)

const (
	sendBuffer   = 8
	writeTimeout = 5 * time.Second
)

// liveMessage is pushed to browsers when the agenda settles or refreshes.
type liveMessage struct {
	Type      string     `json:"type"`
	Loading   bool       `json:"loading"`
	Count     int        `json:"count"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func agendaMessage(snap model.Snapshot) []byte {
	msg := liveMessage{Type: "agenda", Loading: snap.Loading, Count: len(snap.Agenda)}
	if !snap.UpdatedAt.IsZero() {
		msg.UpdatedAt = &snap.UpdatedAt
	}
	b, _ := json.Marshal(msg)
	return b
}

type client struct {
	send chan []byte
}

// Hub fans agenda notifications out to connected websocket clients.
// Slow clients miss messages instead of blocking the broadcaster.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	closed   bool
	greeting func() []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// SetGreeting sets the message sent to each client right after it connects.
func (h *Hub) SetGreeting(fn func() []byte) {
	h.mu.Lock()
	h.greeting = fn
	h.mu.Unlock()
}

// Count reports the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			appLog.Warn("live client too slow; dropping message", nil)
		}
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) add(c *client) (greeting []byte, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.clients[c] = struct{}{}
	if h.greeting != nil {
		greeting = h.greeting()
	}
	return greeting, true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS upgrades the request and streams notifications until either
// side goes away. Incoming frames are ignored.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		appLog.Warn("websocket accept failed", err)
		return
	}
	defer conn.CloseNow()

	c := &client{send: make(chan []byte, sendBuffer)}
	greeting, ok := h.add(c)
	if !ok {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.remove(c)

	ctx := conn.CloseRead(r.Context())
	if greeting != nil {
		if err := write(ctx, conn, greeting); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-c.send:
			if !open {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := write(ctx, conn, msg); err != nil {
				appLog.Debug("websocket write failed", "err", err)
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}
