package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/entregago/entrega/internal/server/http/handlers"
	"github.com/entregago/entrega/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DeliveryFacade, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	restaurantHandler := handlers.NewRestaurantHandler(facade)
	healthHandler := handlers.NewHealthHandler(health)

	engine.GET("/ping", healthHandler.Ping)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")

	restaurants := api.Group("/restaurants")
	restaurants.GET("", restaurantHandler.List)
	restaurants.GET("/:id", restaurantHandler.Get)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.POST("/orders", orderHandler.Create)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/:id", orderHandler.Get)
	userAuth.POST("/orders/:id/cancel", orderHandler.Cancel)

	ops := api.Group("/orders")
	ops.Use(middleware.AuthRequired(facade))
	ops.POST("/:id/advance", orderHandler.Advance)

	return engine
}
