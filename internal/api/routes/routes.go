// Package routes defines the HTTP routes for the SRI console service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sri-intel/console-service/internal/api/handlers"
	"github.com/sri-intel/console-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler   *handlers.HealthHandler
	AuthHandler     *handlers.AuthHandler
	SettingsHandler *handlers.SettingsHandler
	ParamsHandler   *handlers.ParamsHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	v1 := r.Group("/api/v1/console")
	{
		// Health check routes (no auth required)
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		// Opening and closing the session requires no existing session
		v1.POST("/auth/login", cfg.AuthHandler.Login)
		v1.POST("/auth/logout", cfg.AuthHandler.Logout)

		// Everything else sits behind the session guard
		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Guard())

		protected.GET("/auth/me", cfg.AuthHandler.Me)

		settings := protected.Group("/settings")
		{
			settings.GET("", cfg.SettingsHandler.Get)
			settings.PATCH("", cfg.SettingsHandler.Update)
			settings.PATCH("/providers/:provider", cfg.SettingsHandler.UpdateProvider)
			settings.POST("/reset", cfg.SettingsHandler.Reset)
		}

		protected.GET("/params", cfg.ParamsHandler.Get)
		protected.PUT("/params", cfg.ParamsHandler.Put)
	}

	r.NoRoute(middleware.NotFound())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, corsCfg middleware.CORSConfig) {
	r.Use(middleware.NewCORSMiddleware(corsCfg))
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	Setup(r, cfg)
}
