package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/config"
	"spaceship-fleet/maintenance-portal/internal/database"
	"spaceship-fleet/maintenance-portal/internal/logging"
	"spaceship-fleet/maintenance-portal/internal/seed"
	"spaceship-fleet/maintenance-portal/internal/server"
	"spaceship-fleet/maintenance-portal/internal/stream"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	// Connect to database
	logger.Info("Connecting to database", zap.String("driver", cfg.Database.Driver))
	db, err := database.Open(cfg.Database, logger.Named("gorm"), server.Models()...)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Update streams
	hub := stream.NewHub(cfg.Streaming.BufferSize, logger.Named("stream"))
	defer hub.Close()

	heartbeat, err := stream.NewHeartbeat(hub, cfg.Streaming.HeartbeatSpec, logger.Named("heartbeat"))
	if err != nil {
		logger.Fatal("Failed to schedule heartbeat", zap.Error(err))
	}
	heartbeat.Start()

	services := server.NewServices(db, hub, logger)

	// Seed a minimal data set
	seeder := seed.NewSeeder(cfg.Seed, services.Spaceships, services.Repairmen,
		seed.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))), logger.Named("seed"))
	if res, err := seeder.Run(context.Background()); err != nil {
		logger.Error("Data seeding failed", zap.Error(err))
	} else {
		logger.Info("Data seeding finished", zap.Int("spaceships", res.Spaceships), zap.Int("repairmen", res.Repairmen))
	}

	// Setup Router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.Dependencies{
		Services:       services,
		Hub:            hub,
		DB:             db,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Streams end first so Shutdown does not wait on open SSE handlers.
	heartbeat.Stop()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
