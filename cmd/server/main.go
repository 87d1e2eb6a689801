package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobby-s-dev/air-quality-lookup/internal/api"
	"github.com/bobby-s-dev/air-quality-lookup/internal/config"
	"github.com/bobby-s-dev/air-quality-lookup/internal/scheduler"
	"github.com/bobby-s-dev/air-quality-lookup/internal/services"
	"github.com/bobby-s-dev/air-quality-lookup/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	zapConfig := zap.NewProductionConfig()
	logger, _ := zapConfig.Build()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Air Quality Lookup Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	zapConfig.Level.SetLevel(cfg.Server.LogLevel)

	openMeteo := client.NewOpenMeteoClient(client.OpenMeteoEndpoints{
		GeocodingURL:  cfg.OpenMeteo.GeocodingURL,
		AirQualityURL: cfg.OpenMeteo.AirQualityURL,
		ForecastURL:   cfg.OpenMeteo.ForecastURL,
	}, client.ClientConfig{
		Timeout:        cfg.OpenMeteo.Timeout,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}, logger)

	lookup := services.NewLookupService(openMeteo, cfg.Lookup.Timeout, logger)

	// Watch list is optional
	var (
		watcher *scheduler.Scheduler
		watch   api.Watcher
	)
	if len(cfg.Watch.Cities) > 0 {
		watcher, err = scheduler.NewScheduler(lookup, cfg.Watch.Cities, cfg.Watch.Schedule, logger)
		if err != nil {
			logger.Fatal("Failed to initialize watch scheduler", zap.Error(err))
		}
		watch = watcher
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JSONEncoder:  json.Marshal,
		ErrorHandler: api.ErrorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(lookup, cfg.Watch.Cities, watch, logger)
	api.SetupRoutes(app, handler, logger)

	if watcher != nil {
		watcher.Start()
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		watcher.Stop()
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
