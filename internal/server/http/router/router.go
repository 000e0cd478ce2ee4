package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/bernardito-luis/eurodelivery/internal/config"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/handlers"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/middleware"
)

const maxRequestBody = 1 << 20

// Params are router dependencies.
type Params struct {
	fx.In

	Facade handlers.TrackerFacade
	Health handlers.HealthChecker
	Logger *slog.Logger
	Config *config.Config
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	if len(p.Config.CORSOrigins) > 0 {
		engine.Use(cors.New(corsConfig(p.Config.CORSOrigins)))
	}
	engine.Use(middleware.LimitRequestBody(maxRequestBody))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade)
	adminHandler := handlers.NewAdminHandler(p.Facade)

	api := engine.Group("/api")
	api.GET("/health", handlers.NewHealthHandler(p.Health).Check)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(p.Facade))
	authed.GET("/user", authHandler.Profile)
	authed.PUT("/user", authHandler.UpdateProfile)
	authed.PUT("/user/password", authHandler.ChangePassword)
	authed.GET("/statuses", orderHandler.Statuses)
	authed.POST("/orders", orderHandler.Place)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Details)
	authed.GET("/orders/:id/history", orderHandler.History)
	authed.POST("/orders/:id/products", orderHandler.AddProduct)
	authed.POST("/orders/:id/delete", orderHandler.Delete)
	authed.POST("/orders/:id/restore", orderHandler.Restore)

	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.PUT("/orders/:id/status", adminHandler.ChangeStatus)
	admin.PUT("/orders/:id/comment", adminHandler.UpdateComment)

	return engine
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Encoding", "Authorization"},
		ExposeHeaders:    []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
