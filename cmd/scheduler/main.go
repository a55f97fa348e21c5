package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/verdantapp/verdant-backend/internal/apps/reminders"
	"github.com/verdantapp/verdant-backend/internal/config"
	"github.com/verdantapp/verdant-backend/internal/database"
	"github.com/verdantapp/verdant-backend/internal/logging"
	"github.com/verdantapp/verdant-backend/internal/models"
	"github.com/verdantapp/verdant-backend/internal/notify"
	"github.com/verdantapp/verdant-backend/internal/scheduler"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup("scheduler")

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		slog.Error("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db, []interface{}{&models.SystemLog{}}); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	pgLogHandler := logging.NewPGHandler(db, "scheduler")
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.StdoutHandler("scheduler"),
		pgLogHandler,
	)))

	store := reminders.NewService(db, nil)
	sender := notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)

	poller := scheduler.New(store, sender, cfg.DueWindowSec, cfg.TickTimeout)
	cronRunner, err := poller.Start(cfg.PollInterval())
	if err != nil {
		slog.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	// Minimal liveness endpoint so the orchestrator can probe the worker.
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	go func() {
		slog.Info("scheduler liveness endpoint starting", "port", cfg.SchedulerPort)
		if err := app.Listen(":" + cfg.SchedulerPort); err != nil {
			slog.Error("liveness endpoint failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down scheduler...")

	// Stop returns once the in-flight tick, if any, completes.
	<-cronRunner.Stop().Done()

	if err := app.Shutdown(); err != nil {
		slog.Error("liveness endpoint shutdown error", "error", err)
	}

	pgLogHandler.Stop()
	database.Close(db)

	slog.Info("scheduler stopped")
}
