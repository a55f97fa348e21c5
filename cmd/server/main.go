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
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/verdantapp/verdant-backend/internal/apps"
	"github.com/verdantapp/verdant-backend/internal/apps/proxies"
	"github.com/verdantapp/verdant-backend/internal/apps/reminders"
	"github.com/verdantapp/verdant-backend/internal/apps/userplants"
	"github.com/verdantapp/verdant-backend/internal/cache"
	"github.com/verdantapp/verdant-backend/internal/config"
	"github.com/verdantapp/verdant-backend/internal/database"
	"github.com/verdantapp/verdant-backend/internal/dto"
	"github.com/verdantapp/verdant-backend/internal/logging"
	"github.com/verdantapp/verdant-backend/internal/middleware"
	"github.com/verdantapp/verdant-backend/internal/models"
	"github.com/verdantapp/verdant-backend/internal/routes"
	"github.com/verdantapp/verdant-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup("server")

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db, []interface{}{&models.SystemLog{}}); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, "server")
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.StdoutHandler("server"),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Redis read cache (optional)
	var listCache *cache.Cache
	if cfg.RedisAddr != "" {
		listCache, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			slog.Warn("redis unavailable, running without cache", "error", err)
			listCache = nil
		}
	}

	// Plant photo storage (optional)
	var photos userplants.PhotoStore
	if cfg.S3Bucket != "" {
		store, err := storage.New(context.Background(), cfg)
		if err != nil {
			slog.Error("photo storage init failed", "error", err)
			os.Exit(1)
		}
		photos = store
	}

	// Register plugins
	plugins := []apps.Plugin{
		reminders.New(listCache),
		proxies.New(),
		userplants.New(photos),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if modelList := p.Models(); len(modelList) > 0 {
			if err := database.Migrate(db, modelList); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(modelList))
		}
	}

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
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

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
	routes.Setup(app, db, cfg, plugins)

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

	listCache.Close()
	database.Close(db)

	slog.Info("server stopped")
}

// statusLabels maps HTTP codes to the short error labels clients match
// against.
var statusLabels = map[int]string{
	fiber.StatusBadRequest:          "BadRequest",
	fiber.StatusUnauthorized:        "Unauthorized",
	fiber.StatusForbidden:           "Forbidden",
	fiber.StatusNotFound:            "NotFound",
	fiber.StatusConflict:            "Conflict",
	fiber.StatusTooManyRequests:     "TooManyRequests",
	fiber.StatusInternalServerError: "InternalServerError",
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

	label, ok := statusLabels[code]
	if !ok {
		label = "Error"
	}
	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   label,
		Message: message,
	})
}
