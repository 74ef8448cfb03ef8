package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ggorockee/nameorigin/internal/config"
	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/handlers"
	applogger "github.com/ggorockee/nameorigin/internal/logger"
	"github.com/ggorockee/nameorigin/internal/middleware"
	"github.com/ggorockee/nameorigin/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// @title Nationality Prediction API
// @version 1.0.0
// @description Predicts nationalities for personal names and aggregates popular names per country.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	if err := applogger.Init(); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}
	defer applogger.Sync()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "nameorigin-api", cfg.OTELExporterEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "nameorigin-api", cfg.OTELExporterEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connection pool gauges
	poolCtx, cancelPool := context.WithCancel(ctx)
	defer cancelPool()
	go database.StartConnectionPoolMetricsCollector(poolCtx, db.DB, 15*time.Second)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Nationality Prediction API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "nameorigin-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET, POST, OPTIONS",
		AllowHeaders:  "Accept, Accept-Encoding, Authorization, Content-Type, Origin, User-Agent, X-Requested-With",
		ExposeHeaders: "Content-Length, Content-Type",
		MaxAge:        86400,
	}))

	// Setup routes
	setupRoutes(app, db, cfg)

	// Start server
	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config) {
	// Liveness probes
	app.Get("/health", handlers.HealthCheck)

	// Prometheus scrape endpoint
	app.Get("/metrics", middleware.PrometheusHandler())

	// API v1 group
	v1 := app.Group("/api/v1")
	v1.Get("/health", handlers.HealthCheck)

	// Auth routes (signup/token open, the rest guarded per-route)
	auth := v1.Group("/auth")
	handlers.SetupAuthRoutes(auth, db, cfg)

	// Name lookup and popularity routes (auth required)
	names := v1.Group("/names", middleware.AuthRequired(db, cfg))
	popular := v1.Group("/popular-names", middleware.AuthRequired(db, cfg))
	handlers.SetupNameRoutes(names, popular, db, cfg)
}
