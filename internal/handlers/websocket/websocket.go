// internal/handlers/websocket/websocket.go
package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/vishnupprajapat/nextfast/internal/middleware"
	"github.com/vishnupprajapat/nextfast/internal/pkg/response"
	ws "github.com/vishnupprajapat/nextfast/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from the host being dialled.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection upgrades an admin's dashboard to the live product feed.
// The admin session cookie has already been checked by the middleware.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	resolved := middleware.MustGetResolvedAdmin(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, &ws.ClientAuth{
		AdminID:   resolved.AdminID,
		Username:  resolved.Admin.Username,
		ExpiresAt: resolved.ExpiresAt,
	})
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// GetStats reports live connection numbers.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	response.Success(c, http.StatusOK, "WebSocket stats", gin.H{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	})
}
