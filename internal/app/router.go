// internal/app/router.go
package app

import (
	authHandler "github.com/vishnupprajapat/nextfast/internal/handlers/auth"
	cartHandler "github.com/vishnupprajapat/nextfast/internal/handlers/cart"
	catalogHandler "github.com/vishnupprajapat/nextfast/internal/handlers/catalog"
	productHandler "github.com/vishnupprajapat/nextfast/internal/handlers/product"
	wsHandler "github.com/vishnupprajapat/nextfast/internal/handlers/websocket"
	"github.com/vishnupprajapat/nextfast/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	UsersHandler   *authHandler.UsersHandler
	CatalogHandler *catalogHandler.CatalogHandler
	ProductHandler *productHandler.ProductHandler
	UploadHandler  *productHandler.UploadHandler
	CartHandler    *cartHandler.CartHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== Admin (cookie session) ====================
	// Every /admin path passes the gate; only the login and logout paths
	// are reachable without a valid session.
	admin := r.Group("/admin", h.AuthMiddleware.AdminGate())
	{
		admin.GET("/admin-auth", h.AuthHandler.LoginPage)
		admin.POST("/admin-auth", h.AuthHandler.Login)
		admin.GET("/logout", h.AuthHandler.Logout)
		admin.POST("/logout", h.AuthHandler.Logout)
	}

	pages := admin.Group("", h.AuthMiddleware.RequireAdmin())
	{
		pages.GET("", h.AuthHandler.Home)
		pages.GET("/", h.AuthHandler.Home)
		pages.GET("/dashboard", h.AuthHandler.Dashboard)
		pages.GET("/products", h.ProductHandler.ProductsPage)
		pages.GET("/categories", h.CatalogHandler.CategoriesPage)
		pages.GET("/users", h.UsersHandler.UsersPage)
		pages.GET("/ws", h.WSHandler.HandleConnection)
	}

	actions := admin.Group("/products", h.AuthMiddleware.RequireAdminJSON())
	{
		actions.POST("", h.ProductHandler.Save)
		actions.DELETE("/:slug", h.ProductHandler.Delete)
		actions.POST("/upload", h.UploadHandler.Upload)
	}
	admin.GET("/ws/stats", h.AuthMiddleware.RequireAdminJSON(), h.WSHandler.GetStats)

	// ==================== Admin search ====================
	// Served under /api, outside the admin cookie's path.
	api.GET("/admin/products/search", h.ProductHandler.Search)

	// ==================== Storefront ====================
	api.GET("/products/:slug", h.ProductHandler.Get)
	api.GET("/search", h.ProductHandler.Suggest)
	api.GET("/collections", h.CatalogHandler.Collections)
	api.GET("/subcategories/:slug/products", h.CatalogHandler.SubcategoryProducts)

	cart := api.Group("/cart")
	{
		cart.GET("", h.CartHandler.Get)
		cart.POST("/add", h.CartHandler.Add)
		cart.POST("/remove", h.CartHandler.Remove)
	}

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}
