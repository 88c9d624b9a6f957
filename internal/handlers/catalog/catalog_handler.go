// internal/handlers/catalog/catalog_handler.go
package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/domain/catalog"
	"github.com/vishnupprajapat/nextfast/internal/pkg/response"
	catalogUsecase "github.com/vishnupprajapat/nextfast/internal/service/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogService interface {
	Home(ctx context.Context) (*catalog.Home, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
	SubcategoryProducts(ctx context.Context, slug string) (*catalog.SubcategoryProducts, error)
}

type CatalogHandler struct {
	catalogService CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ========== Storefront ==========

// Collections returns the browse tree with the total product count.
func (h *CatalogHandler) Collections(c *gin.Context) {
	home, err := h.catalogService.Home(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load collections", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to load collections")
		return
	}

	response.Success(c, http.StatusOK, "collections", home)
}

func (h *CatalogHandler) SubcategoryProducts(c *gin.Context) {
	slug := c.Param("slug")

	result, err := h.catalogService.SubcategoryProducts(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, catalogUsecase.ErrSubcategoryNotFound) {
			response.NotFound(c, "Subcategory not found")
			return
		}
		h.logger.Error("failed to load subcategory products", zap.String("slug", slug), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to load products")
		return
	}

	response.Success(c, http.StatusOK, "subcategory products", result)
}

// ========== Admin pages ==========

func (h *CatalogHandler) CategoriesPage(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "categories.html", gin.H{"Error": "Failed to load categories"})
		return
	}

	c.HTML(http.StatusOK, "categories.html", gin.H{"Categories": categories})
}
