// internal/websocket/handler/catalog.go
package handler

import (
	"context"
	"fmt"

	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	wstypes "github.com/vishnupprajapat/nextfast/internal/domain/websocket"
	ws "github.com/vishnupprajapat/nextfast/internal/websocket"
)

// CountsSource reports the catalogue summary.
type CountsSource interface {
	Counts(ctx context.Context) (*product.StatusCounts, error)
}

// CatalogHandler lets a live dashboard refresh its stock counters after a
// product change event without reloading the page.
type CatalogHandler struct {
	counts CountsSource
}

func NewCatalogHandler(counts CountsSource) *CatalogHandler {
	return &CatalogHandler{counts: counts}
}

func (h *CatalogHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeCatalogCounts}
}

func (h *CatalogHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeCatalogCounts:
		counts, err := h.counts.Counts(ctx)
		if err != nil {
			return fmt.Errorf("failed to load catalogue counts: %w", err)
		}
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeCatalogCounts, counts))
		return nil
	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}
