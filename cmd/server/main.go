package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/applynowhq/admissions-backend/internal/config"
	"github.com/applynowhq/admissions-backend/internal/database"
	"github.com/applynowhq/admissions-backend/internal/handlers"
	"github.com/applynowhq/admissions-backend/internal/intake"
	"github.com/applynowhq/admissions-backend/internal/logging"
	"github.com/applynowhq/admissions-backend/internal/middleware"
	"github.com/applynowhq/admissions-backend/internal/predict"
	"github.com/applynowhq/admissions-backend/internal/routes"
	"github.com/applynowhq/admissions-backend/internal/services"
	"github.com/applynowhq/admissions-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database (always required: users, refresh tokens, system logs)
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (WARN+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Application store backend
	appStore, redisClient, err := buildStore(cfg)
	if err != nil {
		slog.Error("application store init failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	slog.Info("application store ready", "driver", cfg.StoreDriver)

	// Admission scoring: remote when an API key is configured,
	// deterministic fallback otherwise.
	var remote *predict.RemoteScorer
	if cfg.AIAPIKey != "" {
		remote = predict.NewRemoteScorer(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	}
	engine := predict.NewEngine(remote)
	slog.Info("prediction engine ready", "strategy", engine.Strategy())

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	applicationService := services.NewApplicationService(appStore, engine)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	intakeHandler := handlers.NewIntakeHandler(intake.NewManager(), applicationService, appStore)
	applicationHandler := handlers.NewApplicationHandler(applicationService, cfg.AITimeout)
	adminHandler := handlers.NewAdminHandler(applicationService)
	assistHandler := handlers.NewAssistHandler(engine)
	healthHandler := handlers.NewHealthHandler(cfg.StoreDriver, engine)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, authHandler, intakeHandler, applicationHandler, adminHandler, assistHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// buildStore wires the application store named by STORE_DRIVER. The redis
// driver keeps records in memory and snapshots them to a Redis key; memory
// keeps them in process only.
func buildStore(cfg *config.Config) (store.ApplicationStore, *redis.Client, error) {
	switch cfg.StoreDriver {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		mem, err := store.NewMemory(ctx, store.NewRedisKV(client))
		if err != nil {
			return nil, nil, err
		}
		return mem, client, nil
	case "memory":
		mem, err := store.NewMemory(context.Background(), nil)
		if err != nil {
			return nil, nil, err
		}
		return mem, nil, nil
	default:
		return store.NewPostgres(database.DB), nil, nil
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
