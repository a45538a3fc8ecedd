package events

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 512
)

// Client serialises writes to one websocket connection.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) WriteJSON(v interface{}) error {
	return c.WriteJSONContext(context.Background(), v)
}

// WriteJSONContext bounds the write by WriteWait or ctx's deadline,
// whichever comes first.
func (c *Client) WriteJSONContext(ctx context.Context, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(writeDeadline(ctx)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func writeDeadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(WriteWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Hub tracks live connections per user and pushes booking events to the
// tenant and owner of each booking.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) Register(userID uint, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][client] = true
}

func (h *Hub) Unregister(userID uint, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[userID]; exists {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish stops at the first client it reaches after ctx is done and
// returns ctx's error.
func (h *Hub) Publish(ctx context.Context, event BookingEvent) error {
	h.send(ctx, event.TenantID, event)
	if event.OwnerID != event.TenantID {
		h.send(ctx, event.OwnerID, event)
	}
	return ctx.Err()
}

func (h *Hub) send(ctx context.Context, userID uint, event BookingEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[userID]))
	for client := range h.clients[userID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if ctx.Err() != nil {
			return
		}
		if err := client.WriteJSONContext(ctx, event); err != nil {
			h.logger.Warn("Dropping websocket client after failed write",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
			h.Unregister(userID, client)
			client.Close()
		}
	}
}
