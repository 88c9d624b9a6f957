// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Catalogue events (server -> client)
	EventTypeProductSaved   EventType = "product:saved"
	EventTypeProductDeleted EventType = "product:deleted"

	// Catalogue queries (client -> server, answered with the same type)
	EventTypeCatalogCounts EventType = "catalog:counts"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id,omitempty"`
}

// ChannelType names a stream clients can subscribe to.
type ChannelType string

const (
	ChannelProducts ChannelType = "products"
	ChannelSystem   ChannelType = "system"
)

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ProductChangeData tells dashboards which listing went stale.
type ProductChangeData struct {
	Slug         string `json:"slug"`
	PreviousSlug string `json:"previous_slug,omitempty"`
	Name         string `json:"name,omitempty"`
	ChangedBy    string `json:"changed_by"`
}

func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
