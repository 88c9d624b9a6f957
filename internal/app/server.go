// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vishnupprajapat/nextfast/internal/config"
	"github.com/vishnupprajapat/nextfast/internal/db"
	authHandler "github.com/vishnupprajapat/nextfast/internal/handlers/auth"
	cartHandler "github.com/vishnupprajapat/nextfast/internal/handlers/cart"
	catalogHandler "github.com/vishnupprajapat/nextfast/internal/handlers/catalog"
	productHandler "github.com/vishnupprajapat/nextfast/internal/handlers/product"
	wsHandler "github.com/vishnupprajapat/nextfast/internal/handlers/websocket"
	"github.com/vishnupprajapat/nextfast/internal/middleware"
	"github.com/vishnupprajapat/nextfast/internal/pkg/cartstore"
	"github.com/vishnupprajapat/nextfast/internal/pkg/jwt"
	"github.com/vishnupprajapat/nextfast/internal/pkg/session"
	"github.com/vishnupprajapat/nextfast/internal/repository/postgres"
	authUsecase "github.com/vishnupprajapat/nextfast/internal/service/auth"
	cartUsecase "github.com/vishnupprajapat/nextfast/internal/service/cart"
	catalogUsecase "github.com/vishnupprajapat/nextfast/internal/service/catalog"
	"github.com/vishnupprajapat/nextfast/internal/service/media"
	productUsecase "github.com/vishnupprajapat/nextfast/internal/service/product"
	"github.com/vishnupprajapat/nextfast/internal/web"
	"github.com/vishnupprajapat/nextfast/internal/websocket"
	wsHandlers "github.com/vishnupprajapat/nextfast/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	pool       *pgxpool.Pool
	redis      *redis.Client
	stopHub    context.CancelFunc
}

func NewServer(logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		cfg:    config.Load(),
		engine: gin.New(),
		logger: logger,
	}
}

// Start wires every dependency and serves until Shutdown is called.
func (s *Server) Start() error {
	ctx := context.Background()
	logger := s.logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	logger.Info("connected to PostgreSQL")

	// ----- Redis (optional) -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Address:  s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redis = redisClient

	// ----- JWT Manager -----
	jwtManager, err := jwt.Build(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool, dbWrapper)
	catalogRepo := postgres.NewCatalogRepository(pool, dbWrapper)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go hub.Run(hubCtx)

	// ----- Services (Usecases) -----
	authOpts := []authUsecase.Option{}
	if redisClient != nil {
		authOpts = append(authOpts, authUsecase.WithRateLimiter(session.NewRateLimiter(redisClient)))
		logger.Info("login rate limiting enabled", zap.String("redis", s.cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR not set, login rate limiting disabled")
	}
	authService := authUsecase.NewAuthService(adminRepo, userRepo, jwtManager, logger, authOpts...)
	productService := productUsecase.NewProductService(productRepo, hub, s.cfg.PageSize, logger)
	cartService := cartUsecase.NewCartService(productRepo, logger)
	catalogService := catalogUsecase.NewCatalogService(catalogRepo, productRepo, logger)

	var blobs media.BlobStore
	if s.cfg.CloudinaryURL != "" {
		store, err := media.NewCloudinaryStore(s.cfg.CloudinaryURL, s.cfg.UploadFolder)
		if err != nil {
			return fmt.Errorf("failed to configure image storage: %w", err)
		}
		blobs = store
	} else {
		logger.Warn("CLOUDINARY_URL not set, image uploads disabled")
	}
	mediaService := media.NewMediaService(blobs, logger)

	hub.RegisterHandler(wsHandlers.NewCatalogHandler(productService))

	// ----- Handlers -----
	carts := cartstore.New([]byte(s.cfg.CartSecret), s.cfg.CookieSecure)
	if s.cfg.CartSecret == "" {
		logger.Warn("CART_SECRET not set, carts will not survive a restart")
	}

	handlers := &Handlers{
		AuthHandler:    authHandler.NewAuthHandler(authService, productService, hub, s.cfg.CookieSecure, logger),
		UsersHandler:   authHandler.NewUsersHandler(authService, logger),
		CatalogHandler: catalogHandler.NewCatalogHandler(catalogService, logger),
		ProductHandler: productHandler.NewProductHandler(productService, logger),
		UploadHandler:  productHandler.NewUploadHandler(mediaService, logger),
		CartHandler:    cartHandler.NewCartHandler(cartService, carts, logger),
		WSHandler:      wsHandler.NewWebSocketHandler(hub, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(authService, s.cfg.CookieSecure, logger),
	}

	// ----- Templates & Middlewares -----
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.engine.SetHTMLTemplate(tmpl)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.SecurityHeadersMiddleware(),
	)

	// ----- Router -----
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, closes live feeds and releases the
// database and Redis pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Warn("failed to close Redis client", zap.Error(cerr))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
