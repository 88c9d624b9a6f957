// internal/websocket/client.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	wstypes "github.com/vishnupprajapat/nextfast/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// ClientAuth is the admin session a connection was opened with.
type ClientAuth struct {
	AdminID   int64
	Username  string
	ExpiresAt time.Time
}

// Conn is the part of *websocket.Conn the client drives.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

type Client struct {
	hub       *Hub
	conn      Conn
	send      chan []byte
	adminID   int64
	username  string
	expiresAt time.Time

	// Subscriptions - what channels this client is listening to
	subscriptions map[wstypes.ChannelType]bool
	subMutex      sync.RWMutex

	// Context for graceful shutdown
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn Conn, auth *ClientAuth) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 256),
		adminID:       auth.AdminID,
		username:      auth.Username,
		expiresAt:     auth.ExpiresAt,
		subscriptions: make(map[wstypes.ChannelType]bool),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Subscribe adds a known channel. Unknown channels are refused.
func (c *Client) Subscribe(channel wstypes.ChannelType) bool {
	switch channel {
	case wstypes.ChannelProducts, wstypes.ChannelSystem:
	default:
		return false
	}

	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	c.subscriptions[channel] = true
	return true
}

func (c *Client) Unsubscribe(channel wstypes.ChannelType) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	delete(c.subscriptions, channel)
}

func (c *Client) IsSubscribed(channel wstypes.ChannelType) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	return c.subscriptions[channel]
}

// Channels lists the current subscriptions.
func (c *Client) Channels() []wstypes.ChannelType {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	out := make([]wstypes.ChannelType, 0, len(c.subscriptions))
	for ch := range c.subscriptions {
		out = append(out, ch)
	}
	return out
}

func (c *Client) AdminID() int64 {
	return c.adminID
}

// ReadPump handles incoming messages from client
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.hub.logger.Warn("websocket read error", zap.Int64("admin_id", c.adminID), zap.Error(err))
				}
				return
			}

			c.handleMessage(message)
		}
	}
}

// WritePump handles outgoing messages to client. The connection is closed
// when the admin session it was opened with expires.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	expiry := time.NewTimer(time.Until(c.expiresAt))
	defer func() {
		ticker.Stop()
		expiry.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.drain()
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-expiry.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session expired"))
			return
		}
	}
}

// drain flushes queued messages, such as a final disconnect notice, before
// the close frame goes out.
func (c *Client) drain() {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// handleMessage processes incoming messages from client
func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", err.Error())
		return
	}

	if err := c.hub.HandleClientMessage(c.ctx, c, msg); err != nil {
		c.hub.logger.Error("websocket handler failed",
			zap.Int64("admin_id", c.adminID),
			zap.String("event", string(msg.Type)),
			zap.Error(err))
		c.SendError("handler_error", "Failed to process message", "")
		return
	}

	switch msg.Type {
	case wstypes.EventTypePing:
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))

	case wstypes.EventTypeSubscribe:
		var req wstypes.SubscribeRequest
		if err := decodeData(msg.Data, &req); err != nil {
			c.SendError("invalid_subscribe", "Invalid subscribe request", err.Error())
			return
		}
		accepted := []wstypes.ChannelType{}
		for _, channel := range req.Channels {
			if c.Subscribe(channel) {
				accepted = append(accepted, channel)
			}
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeSubscribe, map[string]interface{}{
			"channels": accepted,
			"status":   "subscribed",
		}))

	case wstypes.EventTypeUnsubscribe:
		var req wstypes.UnsubscribeRequest
		if err := decodeData(msg.Data, &req); err != nil {
			c.SendError("invalid_unsubscribe", "Invalid unsubscribe request", err.Error())
			return
		}
		for _, channel := range req.Channels {
			c.Unsubscribe(channel)
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeUnsubscribe, map[string]interface{}{
			"channels": req.Channels,
			"status":   "unsubscribed",
		}))
	}
}

// SendMessage queues a message for the client. A client whose queue is
// full is too slow to keep up and gets disconnected.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.hub.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	select {
	case <-c.ctx.Done():
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("websocket client too slow, closing", zap.Int64("admin_id", c.adminID))
		c.Close()
	}
}

// SendError sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close stops both pumps. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// decodeData converts a generic payload into target via JSON.
func decodeData(data interface{}, target interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
