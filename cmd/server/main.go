// Package main is the entry point for the SRI Console Service.
// @title SRI Console Service API
// @version 1.0
// @description Session, settings and global-parameter gateway for the SRI 作战指挥室 dashboard

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8086
// @BasePath /api/v1/console
// @schemes http
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sri-intel/console-service/docs"
	"github.com/sri-intel/console-service/internal/api/handlers"
	"github.com/sri-intel/console-service/internal/api/middleware"
	"github.com/sri-intel/console-service/internal/api/routes"
	"github.com/sri-intel/console-service/internal/config"
	"github.com/sri-intel/console-service/internal/core/docdb"
	"github.com/sri-intel/console-service/internal/core/storage"
	mongodocdb "github.com/sri-intel/console-service/internal/infrastructure/docdb/mongodb"
	memorystorage "github.com/sri-intel/console-service/internal/infrastructure/storage/memory"
	redisstorage "github.com/sri-intel/console-service/internal/infrastructure/storage/redis"
	"github.com/sri-intel/console-service/internal/pkg/encryption"
	"github.com/sri-intel/console-service/internal/services/params"
	"github.com/sri-intel/console-service/internal/services/session"
	"github.com/sri-intel/console-service/internal/services/settings"
	"github.com/sri-intel/console-service/internal/services/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	configureLogging(cfg.Log)

	ctx := context.Background()

	// Durable storage (survives restarts) and session-scoped storage
	// (process lifetime only)
	durableStore, err := createDurableStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize durable storage: %v", err)
	}
	defer durableStore.Close()

	sessionStore := memorystorage.NewStore()
	defer sessionStore.Close()

	// Document database for the global parameters
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Fatalf("failed to initialize document db client: %v", err)
	}
	defer docDBClient.Close(ctx)

	if err := docDBClient.EnsureIndexes(ctx); err != nil {
		log.Printf("warning: failed to ensure indexes: %v", err)
	}

	// Encryptor for token/user blobs at rest
	encryptor, err := createEncryptor(cfg.Security)
	if err != nil {
		log.Fatalf("failed to initialize encryptor: %v", err)
	}

	// SRI backend client
	upstreamClient, err := upstream.NewClient(&upstream.ClientConfig{
		BaseURL: cfg.Upstream.URL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		log.Fatalf("failed to initialize upstream client: %v", err)
	}

	// Auth session store; rehydrates any prior session from durable storage
	sessions, err := session.NewStore(&session.Config{
		Upstream:  upstreamClient,
		Durable:   durableStore,
		Session:   sessionStore,
		Encryptor: encryptor,
	})
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}

	// A 401 from any backend endpoint forces a logout, no matter which
	// request triggered it.
	upstreamClient.OnUnauthorized(func() {
		sessions.Logout(context.Background())
	})

	// Validate the rehydrated session against the backend
	restoreCtx, cancelRestore := context.WithTimeout(ctx, cfg.Upstream.Timeout)
	sessions.Restore(restoreCtx)
	cancelRestore()

	// Settings store
	settingsStore, err := settings.NewStore(&settings.Config{
		Durable: durableStore,
		Session: sessionStore,
	})
	if err != nil {
		log.Fatalf("failed to initialize settings store: %v", err)
	}
	if err := settingsStore.Load(ctx); err != nil {
		log.Printf("warning: failed to load persisted settings, using defaults: %v", err)
	}

	// Global parameters service
	paramsService, err := params.NewService(&params.Config{
		DocDB:   docDBClient,
		Durable: durableStore,
	})
	if err != nil {
		log.Fatalf("failed to initialize params service: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(sessions, settingsStore, paramsService, durableStore, docDBClient)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// configureLogging sets the global zerolog level.
func configureLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// createDurableStore creates the durable storage backend based on the configuration.
func createDurableStore(cfg config.StorageConfig) (storage.Store, error) {
	storageType := storage.Type(cfg.Type)

	switch storageType {
	case storage.TypeRedis:
		return redisstorage.NewStore(redisstorage.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case storage.TypeMemory:
		// Volatile; only sensible for local development
		return memorystorage.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	docDBType := docdb.Type(cfg.Type)

	switch docDBType {
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		// CosmosDB speaks the MongoDB protocol, so both use the same client
		return mongodocdb.NewClient(ctx, &mongodocdb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		return nil, fmt.Errorf("unsupported docdb type: %s", cfg.Type)
	}
}

// createEncryptor creates the at-rest encryptor based on the configuration.
func createEncryptor(cfg config.SecurityConfig) (encryption.Encryptor, error) {
	if cfg.EncryptionKey == "" {
		log.Println("warning: STATE_ENCRYPTION_KEY not set, using NoOp encryptor")
		return encryption.NewNoOpEncryptor(), nil
	}
	return encryption.NewAESEncryptor(cfg.EncryptionKey)
}

// setupRouter creates and configures the Gin router.
func setupRouter(sessions *session.Store, settingsStore *settings.Store, paramsService *params.Service, durableStore storage.Store, docDBClient docdb.Client) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(sessions)

	// Create handlers
	healthHandler := handlers.NewHealthHandler(durableStore, docDBClient)
	authHandler := handlers.NewAuthHandler(sessions)
	settingsHandler := handlers.NewSettingsHandler(settingsStore)
	paramsHandler := handlers.NewParamsHandler(paramsService)

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:   healthHandler,
		AuthHandler:     authHandler,
		SettingsHandler: settingsHandler,
		ParamsHandler:   paramsHandler,
		AuthMiddleware:  authMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, middleware.DefaultCORSConfig())

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
