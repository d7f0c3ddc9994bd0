package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"batepapo/internal/config"
	"batepapo/internal/handler"
	"batepapo/internal/middleware"
	"batepapo/internal/repository"
	"batepapo/internal/service"
	"batepapo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	// Startup phase: every store must be reachable and indexed before the
	// listener or the presence sweep touches it.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancelStartup()

	mongoClient, err := mongo.Connect(startupCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", "error", err)
	}
	if err := mongoClient.Ping(startupCtx, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", "error", err)
	}
	appLogger.Info("MongoDB connection established")

	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(startupCtx, db); err != nil {
		appLogger.Fatal("Failed to build indexes", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(startupCtx).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	repos := repository.NewRepositories(db, rdb, appLogger)
	services := service.NewServices(repos, cfg, appLogger)
	handlers := handler.NewHandlers(services, appLogger)

	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)
	router := setupRouter(handlers, rateLimitMiddleware, cfg, appLogger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		if err := services.Presence.Run(sweepCtx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error("Presence reconciler exited", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	stopSweep()
	<-sweepDone

	if err := rdb.Close(); err != nil {
		appLogger.Warn("Failed to close Redis client", "error", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		appLogger.Warn("Failed to disconnect MongoDB client", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Check)

	router.POST("/participants", rateLimitMiddleware.Limit(), handlers.Participant.Register)
	router.GET("/participants", handlers.Participant.List)

	router.POST("/messages", rateLimitMiddleware.Limit(), handlers.Message.Post)
	router.GET("/messages", handlers.Message.List)
	router.DELETE("/messages/:id", handlers.Message.Delete)

	router.POST("/status", handlers.Status.Heartbeat)

	return router
}
