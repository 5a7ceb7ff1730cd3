package notifications

import (
	"context"
	"errors"
	"log"
	"sync"

	"yatube/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// Max total connections per server instance.
const maxTotalConns = 10000

// Hub tracks connected feed clients and fans new-post events out to
// them. Connections are anonymous: visitors do not have to log in to
// watch the feed update.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	shutdown chan struct{}
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		shutdown: make(chan struct{}),
	}
}

// Register adds a connection to the hub and returns its Client.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	client := newClient(h, conn)
	h.clients[client] = struct{}{}
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// UnregisterClient removes a client from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		observability.WebSocketConnectionsTotal.Dec()
	}
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.clients {
		c.TrySend(data)
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartWiring connects the Notifier to this hub: feed events published
// through Redis are forwarded to every local websocket client.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, func(payload string) {
		h.BroadcastAll(payload)
	})
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.Conn == nil {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
			log.Printf("failed to write close message: %v", err)
		}
		if err := client.Conn.Close(); err != nil {
			log.Printf("failed to close websocket: %v", err)
		}
	}
	observability.WebSocketConnectionsTotal.Sub(float64(len(h.clients)))
	h.clients = make(map[*Client]struct{})

	return nil
}
