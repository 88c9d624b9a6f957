// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "github.com/vishnupprajapat/nextfast/internal/domain/websocket"

	"go.uber.org/zap"
)

type Hub struct {
	// Registered clients by admin ID
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	done     chan struct{}
	doneOnce sync.Once

	logger *zap.Logger
}

type BroadcastMessage struct {
	AdminIDs []int64
	Channel  wstypes.ChannelType
	Message  *wstypes.WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[int64]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		done:            make(chan struct{}),
		logger:          logger,
	}
}

// RegisterHandler adds a handler for client events.
func (h *Hub) RegisterHandler(handler MessageHandler) {
	for _, event := range h.handlerRegistry.Register(handler) {
		h.logger.Warn("websocket event handler replaced", zap.String("event", string(event)))
	}
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return nil // built-in events are handled by the client
	}
	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

// Join hands a client to the running hub. It reports false once the hub
// has shut down.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.adminID] == nil {
		h.clients[client.adminID] = make(map[*Client]bool)
	}
	h.clients[client.adminID][client] = true

	// every admin dashboard follows the catalogue by default
	client.Subscribe(wstypes.ChannelProducts)
	client.Subscribe(wstypes.ChannelSystem)

	h.logger.Info("websocket client connected",
		zap.Int64("admin_id", client.adminID),
		zap.String("username", client.username),
		zap.Int("total", h.totalClients()))

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"admin_id":   client.adminID,
		"username":   client.username,
		"expires_at": client.expiresAt,
		"channels":   client.Channels(),
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.adminID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.adminID)
			}

			h.logger.Info("websocket client disconnected",
				zap.Int64("admin_id", client.adminID),
				zap.Int("total", h.totalClients()))
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.AdminIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
		return
	}

	for _, adminID := range msg.AdminIDs {
		for client := range h.clients[adminID] {
			if client.IsSubscribed(msg.Channel) {
				client.SendMessage(msg.Message)
			}
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// PublishProductChange tells every dashboard that a listing changed. The
// event is dropped when the broadcast queue is full.
func (h *Hub) PublishProductChange(event wstypes.EventType, change *wstypes.ProductChangeData) {
	msg := &BroadcastMessage{
		Channel: wstypes.ChannelProducts,
		Message: wstypes.NewMessage(event, change),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping event",
			zap.String("event", string(event)),
			zap.String("slug", change.Slug))
	}
}

// DisconnectAdmin closes every connection of an admin, e.g. on logout.
func (h *Hub) DisconnectAdmin(adminID int64, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[adminID]
	if !ok {
		return
	}

	disconnectMsg := wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]interface{}{
		"reason": reason,
	})
	for client := range clients {
		client.SendMessage(disconnectMsg)
		client.Close()
	}
	delete(h.clients, adminID)

	h.logger.Info("disconnected admin", zap.Int64("admin_id", adminID), zap.String("reason", reason))
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.doneOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for adminID, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, adminID)
	}
}
