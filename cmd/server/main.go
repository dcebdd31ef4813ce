package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/smartcity/roadsafety/internal/config"
	"github.com/smartcity/roadsafety/internal/delivery/http"
	"github.com/smartcity/roadsafety/internal/ingest"
	"github.com/smartcity/roadsafety/internal/observability"
	"github.com/smartcity/roadsafety/internal/repository/memory"
	"github.com/smartcity/roadsafety/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Datasets are loaded before the listener starts; no request sees a partial store.
	datasets, err := ingest.LoadDatasets(ctx, cfg.IncidentsPath, cfg.FacilitiesPath)
	if err != nil {
		log.Error("failed to load datasets", "error", err)
		os.Exit(1)
	}
	store, report := memory.Load(datasets.Incidents, datasets.Facilities, log)
	metrics.ObserveLoad(report.IncidentsLoaded, report.IncidentsDropped, report.FacilitiesLoaded, report.FacilitiesDropped)

	// Alert sinks
	sinks, err := buildSinks(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize alert sinks", "error", err)
		os.Exit(1)
	}
	defer sinks.Close(log)

	// Dependency Injection: Services
	handler := http.NewHandler(http.Services{
		Records:   store,
		Proximity: service.NewProximityService(store, cfg.Hotspot, cfg.RadiusKm),
		Alerts:    service.NewAlertNotifier(sinks.Sink, nil, log),
		Heatmap:   service.NewHeatmapService(store),
		Overview:  service.NewOverviewService(store, cfg.Hotspot, cfg.RadiusKm),
	}, metrics, log, sinks.Checks)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:               "Road Safety API v1.0",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          http.ErrorHandler(log),
		DisableStartupMessage: cfg.Env == "production",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, handler, metrics)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env,
			"incidents", report.IncidentsLoaded, "facilities", report.FacilitiesLoaded)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server error", "error", err)
		return
	}

	log.Info("shutting down server", "timeout", cfg.ShutdownTimeout)
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exited gracefully")
}
