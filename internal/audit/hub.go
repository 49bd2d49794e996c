// internal/audit/hub.go
// Websocket hub streaming decision events to connected members.

package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write an event to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10
)

// Hub maintains active websocket connections keyed by member id.
type Hub struct {
	clients    map[string]*Client
	clientsMux sync.RWMutex

	broadcast  chan broadcastEvent
	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
}

type broadcastEvent struct {
	memberIDs []string
	payload   []byte
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan broadcastEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.deliver(event)

		case <-h.ctx.Done():
			return
		}
	}
}

// Broadcast queues an event for the given members. Non-blocking: if the hub
// is saturated the event is dropped, since delivery is best effort.
func (h *Hub) Broadcast(memberIDs []string, payload []byte) {
	select {
	case h.broadcast <- broadcastEvent{memberIDs: memberIDs, payload: payload}:
	default:
		log.Printf("audit hub: broadcast queue full, dropping event")
	}
}

func (h *Hub) Shutdown() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	// Remove old connection for the same member
	if old, exists := h.clients[client.memberID]; exists {
		old.Close()
	}

	h.clients[client.memberID] = client
	log.Printf("Member %s connected to event stream. Total clients: %d", client.memberID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.memberID]; exists && current == client {
		client.Close()
		delete(h.clients, client.memberID)
	}
}

func (h *Hub) deliver(event broadcastEvent) {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	for _, id := range event.memberIDs {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.send <- event.payload:
		default:
			// Slow consumer; drop rather than block the hub.
		}
	}
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
}

// Client represents one websocket subscriber.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	memberID string

	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, memberID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 64),
		memberID: memberID,
	}
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// detach hands the client back to the hub. Once the hub has shut down nobody
// drains the unregister channel, so give up instead of blocking forever.
func (c *Client) detach() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.ctx.Done():
	}
}

// readPump discards inbound frames; the stream is one-way. It exists to
// observe pongs and connection closure.
func (c *Client) readPump() {
	defer func() {
		c.detach()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
