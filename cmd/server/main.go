package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mlbsim/hr-predictor/internal/api"
	"github.com/mlbsim/hr-predictor/internal/providers"
	"github.com/mlbsim/hr-predictor/internal/services"
	"github.com/mlbsim/hr-predictor/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)

	// Initialize the stats provider
	statsClient := providers.NewStatsAPIClient(providers.StatsAPIConfig{
		BaseURL:          cfg.MLBAPIBaseURL,
		PlayerID:         cfg.MLBPlayerID,
		TeamID:           cfg.MLBTeamID,
		Timeout:          cfg.ExternalAPITimeout,
		RequestsPerSec:   cfg.MLBAPIRateLimit,
		BreakerThreshold: uint32(cfg.CircuitBreakerThreshold),
	}, cacheService, logrus.StandardLogger())

	// Parse fetch interval
	fetchInterval, err := time.ParseDuration(cfg.DataFetchInterval)
	if err != nil {
		logrus.Warnf("Invalid fetch interval, using default 4h: %v", err)
		fetchInterval = 4 * time.Hour
	}

	// Initialize the scheduled data updater
	dataUpdater := services.NewDataUpdaterService(statsClient, cacheService, logrus.StandardLogger(), fetchInterval)
	if err := dataUpdater.Start(cfg.SkipInitialDataFetch); err != nil {
		logrus.Errorf("Failed to start data updater: %v", err)
	}
	defer dataUpdater.Stop()

	// Setup Gin router
	router := api.NewRouter(statsClient, cacheService, dataUpdater, cfg)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
