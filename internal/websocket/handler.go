// internal/websocket/handler.go
package websocket

import (
	"context"
	"sync"

	wstypes "github.com/vishnupprajapat/nextfast/internal/domain/websocket"
)

// MessageHandler answers client requests for one area of the admin UI.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry routes client events to the handler that claimed them.
// Lookups happen from every client's read loop, so it is guarded.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

func isBuiltinEvent(t wstypes.EventType) bool {
	switch t {
	case wstypes.EventTypePing, wstypes.EventTypeSubscribe, wstypes.EventTypeUnsubscribe:
		return true
	}
	return false
}

// Register maps each of handler's events to it and returns the events that
// were taken over from an earlier handler. Built-in events are skipped.
func (r *HandlerRegistry) Register(handler MessageHandler) (replaced []wstypes.EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventType := range handler.SupportedEvents() {
		if isBuiltinEvent(eventType) {
			continue
		}
		if _, taken := r.handlers[eventType]; taken {
			replaced = append(replaced, eventType)
		}
		r.handlers[eventType] = handler
	}
	return replaced
}

func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[eventType]
	return handler, exists
}
