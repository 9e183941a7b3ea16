package server

import (
	"context"

	"github.com/abduss/imgdrive/internal/auth"
	"github.com/abduss/imgdrive/internal/config"
	"github.com/abduss/imgdrive/internal/gallery"
	"github.com/abduss/imgdrive/internal/logger"
	"github.com/abduss/imgdrive/internal/metrics"
	"github.com/abduss/imgdrive/internal/share"
	"github.com/abduss/imgdrive/internal/telegram"
	"github.com/gin-gonic/gin"
)

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config         config.Config
	ObjectStore    Pinger
	Registry       Pinger
	AuthService    *auth.Service
	GalleryService *gallery.Service
	ShareService   *share.Service
	TelegramBot    *telegram.Bot
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	if deps.Config.Metrics.PrometheusPath != "" {
		metrics.Register(router, deps.Config.Metrics.PrometheusPath)
	}

	if deps.TelegramBot != nil {
		telegram.RegisterRoutes(router, deps.TelegramBot)
	}

	api := router.Group("/api")
	if deps.ShareService != nil {
		share.RegisterPublicRoutes(api, deps.ShareService)
	}

	if deps.AuthService != nil {
		auth.RegisterRoutes(&router.RouterGroup, deps.AuthService)

		protected := api.Group("")
		protected.Use(auth.AuthMiddleware(deps.AuthService))

		if deps.GalleryService != nil {
			gallery.RegisterRoutes(protected, deps.GalleryService)
		}
		if deps.ShareService != nil {
			share.RegisterRoutes(protected, deps.ShareService)
		}
	}

	return router
}
