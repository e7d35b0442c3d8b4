package feed

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// client is one connected feed subscriber with a buffered outbound
// queue. Slow consumers are disconnected rather than blocking the hub.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to all connected websocket subscribers.
type Hub struct {
	logger     *zap.Logger
	sendBuffer int

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates a feed hub. sendBuffer is the per-client outbound
// queue depth.
func NewHub(logger *zap.Logger, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Hub{
		logger:     logger,
		sendBuffer: sendBuffer,
		clients:    make(map[*client]struct{}),
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a message for every connected client. Clients whose
// queue is full are dropped; the feed is best-effort.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Debug("dropping slow feed client")
		h.remove(c)
		c.conn.Close(websocket.StatusPolicyViolation, "send queue overflow")
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// serve runs the read and write loops for one connection until either
// side closes or ctx is done.
func (h *Hub) serve(ctx context.Context, conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}
	h.add(c)
	defer h.remove(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Read loop: the feed is one-way, but reading surfaces client
	// closes and keeps ping handling alive.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// CloseAll disconnects every subscriber. Called on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
