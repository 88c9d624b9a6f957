// internal/handlers/cart/cart_handler.go
package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/domain/cart"
	"github.com/vishnupprajapat/nextfast/internal/pkg/response"
	cartUsecase "github.com/vishnupprajapat/nextfast/internal/service/cart"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartService interface {
	Add(c cart.Cart, slug string) (cart.Cart, error)
	Remove(c cart.Cart, slug string) (cart.Cart, error)
	View(ctx context.Context, c cart.Cart) (*cart.View, error)
}

// CartStore reads and writes the cart cookie.
type CartStore interface {
	Load(r *http.Request) (cart.Cart, error)
	Save(w http.ResponseWriter, r *http.Request, c cart.Cart) error
}

type CartHandler struct {
	cartService CartService
	store       CartStore
	logger      *zap.Logger
}

func NewCartHandler(cartService CartService, store CartStore, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		store:       store,
		logger:      logger,
	}
}

func (h *CartHandler) Get(c *gin.Context) {
	h.respond(c, h.load(c))
}

// Add puts one more unit of productSlug into the cart.
func (h *CartHandler) Add(c *gin.Context) {
	h.update(c, h.cartService.Add)
}

// Remove drops productSlug from the cart entirely.
func (h *CartHandler) Remove(c *gin.Context) {
	h.update(c, h.cartService.Remove)
}

func (h *CartHandler) update(c *gin.Context, op func(cart.Cart, string) (cart.Cart, error)) {
	var req cart.ItemRequest
	_ = c.ShouldBind(&req)

	next, err := op(h.load(c), req.ProductSlug)
	if err != nil {
		if errors.Is(err, cartUsecase.ErrMissingSlug) {
			response.ValidationError(c, "productSlug is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	if err := h.store.Save(c.Writer, c.Request, next); err != nil {
		h.logger.Error("failed to save cart", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	h.respond(c, next)
}

// load falls back to an empty cart when the cookie cannot be read.
func (h *CartHandler) load(c *gin.Context) cart.Cart {
	items, err := h.store.Load(c.Request)
	if err != nil {
		h.logger.Info("discarding unreadable cart cookie", zap.Error(err))
	}
	return items
}

func (h *CartHandler) respond(c *gin.Context, items cart.Cart) {
	view, err := h.cartService.View(c.Request.Context(), items)
	if err != nil {
		h.logger.Error("failed to load cart", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	response.Success(c, http.StatusOK, "cart", view)
}
