// internal/handlers/product/product_handler.go
package product

import (
	"context"
	"errors"
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	"github.com/vishnupprajapat/nextfast/internal/middleware"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"
	"github.com/vishnupprajapat/nextfast/internal/pkg/response"
	"github.com/vishnupprajapat/nextfast/internal/service/auth"
	productUsecase "github.com/vishnupprajapat/nextfast/internal/service/product"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgIncomplete   = "All fields are required"
	msgInvalidPrice = "Price must be a non-negative number"
	msgInvalidStock = "Stock cannot be negative"
)

type ProductService interface {
	Search(ctx context.Context, filters product.SearchFilters) (*product.SearchResult, error)
	Get(ctx context.Context, slug string) (*product.Product, error)
	Suggest(ctx context.Context, q string) ([]product.Product, error)
	Save(ctx context.Context, actor *auth.ResolvedAdmin, req *product.SaveRequest) (*product.Product, error)
	Delete(ctx context.Context, actor *auth.ResolvedAdmin, slug string) error
}

type ProductHandler struct {
	productService ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// ========== Admin search ==========

// Search answers the admin table's search box with a bare JSON body:
// {products, total, page, totalPages}.
func (h *ProductHandler) Search(c *gin.Context) {
	var filters product.SearchFilters
	_ = c.ShouldBindQuery(&filters)

	result, err := h.productService.Search(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("product search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProductsPage renders the admin product table.
func (h *ProductHandler) ProductsPage(c *gin.Context) {
	var filters product.SearchFilters
	_ = c.ShouldBindQuery(&filters)
	q := filters.Normalize()

	data := gin.H{
		"Filters": filters,
		"Status":  string(q.Status),
	}

	result, err := h.productService.Search(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("product page search failed", zap.Error(err))
		data["Error"] = "Failed to search products"
		c.HTML(http.StatusInternalServerError, "products.html", data)
		return
	}

	data["Result"] = result
	c.HTML(http.StatusOK, "products.html", data)
}

// ========== Admin actions ==========

// Save creates or updates a product from a form or JSON body.
func (h *ProductHandler) Save(c *gin.Context) {
	actor := middleware.MustGetResolvedAdmin(c)

	var req product.SaveRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, saveBindMessage(err))
		return
	}

	p, err := h.productService.Save(c.Request.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, productUsecase.ErrIncomplete):
			response.ValidationError(c, msgIncomplete)
		case errors.Is(err, productUsecase.ErrInvalidPrice):
			response.ValidationError(c, msgInvalidPrice)
		case errors.Is(err, productUsecase.ErrInvalidStock):
			response.ValidationError(c, msgInvalidStock)
		case errors.Is(err, productUsecase.ErrSlugTaken):
			response.Error(c, http.StatusConflict, "A product with this slug already exists")
		case errors.Is(err, productUsecase.ErrProductNotFound):
			response.NotFound(c, "Product not found")
		default:
			h.logger.Error("failed to save product", zap.String("slug", req.Slug), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "Failed to save product")
		}
		return
	}

	status := http.StatusOK
	if req.OriginalSlug == "" {
		status = http.StatusCreated
	}
	response.Success(c, status, "product saved", p)
}

// saveBindMessage turns a binding failure into the form's error message.
// A missing field wins over a malformed one.
func saveBindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgIncomplete
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return msgIncomplete
		}
	}
	switch verrs[0].Field() {
	case "Price":
		return msgInvalidPrice
	case "Stock":
		return msgInvalidStock
	}
	return msgIncomplete
}

func (h *ProductHandler) Delete(c *gin.Context) {
	actor := middleware.MustGetResolvedAdmin(c)
	slug := c.Param("slug")

	if err := h.productService.Delete(c.Request.Context(), actor, slug); err != nil {
		if errors.Is(err, productUsecase.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		h.logger.Error("failed to delete product", zap.String("slug", slug), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	response.Success(c, http.StatusOK, "product deleted", gin.H{"slug": slug})
}

// ========== Storefront ==========

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.productService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		status := xerrors.StatusCode(err)
		if status == http.StatusNotFound {
			response.NotFound(c, "Product not found")
			return
		}
		h.logger.Error("failed to load product", zap.Error(err))
		response.Error(c, status, "Failed to load product")
		return
	}

	response.Success(c, http.StatusOK, "product", p)
}

// Suggest feeds the storefront search dropdown.
func (h *ProductHandler) Suggest(c *gin.Context) {
	products, err := h.productService.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.Error("product suggestions failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to search products")
		return
	}

	response.Success(c, http.StatusOK, "suggestions", products)
}
