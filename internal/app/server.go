// File: internal/app/server.go

// Package app assembles the HTTP server: routing, middleware chain and
// lifecycle for the background jobs.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ldw80203/house-video/internal/chat"
	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/config"
	"github.com/ldw80203/house-video/internal/jobs"
	"github.com/ldw80203/house-video/internal/listing"
	"github.com/ldw80203/house-video/internal/middleware"
	"github.com/ldw80203/house-video/internal/session"
	"github.com/ldw80203/house-video/internal/shared"
	"github.com/ldw80203/house-video/internal/user"
	"github.com/ldw80203/house-video/internal/video"
)

// Handlers bundles every HTTP handler mounted on the router.
type Handlers struct {
	Session *session.Handler
	User    *user.Handler
	Listing *listing.Handler
	Video   *video.Handler
	Chat    *chat.Handler
}

// NewRouter builds the gin engine with the full middleware chain and all
// API routes mounted under /api/v1.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	verifier shared.TokenVerifier,
	blocklist shared.TokenBlocklist,
	profiles shared.Service,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.ZapLogger(logger, cfg))
	engine.Use(middleware.ErrorHandler(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	engine.Use(cors.New(corsConfig))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMW := middleware.AuthMiddleware(verifier, blocklist, profiles, logger)

	api := engine.Group("/api/v1")
	handlers.Session.RegisterRoutes(api, authMW)
	handlers.User.RegisterRoutes(api, authMW)
	handlers.Listing.RegisterRoutes(api, authMW)
	handlers.Video.RegisterRoutes(api, authMW)
	handlers.Chat.RegisterRoutes(api, authMW)

	engine.NoRoute(func(c *gin.Context) {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("The requested endpoint does not exist."))
	})

	return engine
}

// Server owns the HTTP listener and the background job lifecycle.
type Server struct {
	httpServer *http.Server
	expiryJob  *jobs.ListingExpiryJob
	logger     *zap.Logger
}

// NewServer creates the server around a built router.
func NewServer(cfg *config.Config, engine *gin.Engine, expiryJob *jobs.ListingExpiryJob, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      engine,
			ReadTimeout:  cfg.ServerTimeout,
			WriteTimeout: cfg.ServerTimeout,
		},
		expiryJob: expiryJob,
		logger:    logger,
	}
}

// Start launches the background jobs and blocks serving HTTP until the
// listener closes.
func (s *Server) Start() error {
	if err := s.expiryJob.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the background jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	s.expiryJob.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped.")
	return nil
}

// AutoMigrate creates or updates the schema for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.Profile{},
		&listing.Listing{},
		&chat.ChatRoom{},
		&chat.ChatMessage{},
	)
}
