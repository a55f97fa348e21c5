package routes

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/apps"
	"github.com/verdantapp/verdant-backend/internal/config"
	"github.com/verdantapp/verdant-backend/internal/dto"
	"github.com/verdantapp/verdant-backend/internal/handlers"
	"github.com/verdantapp/verdant-backend/internal/middleware"
)

// Setup mounts the health endpoint and every registered app's routes
// under the JWT-protected /v1 group.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, plugins []apps.Plugin) {
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error:   "TooManyRequests",
				Message: "Rate limit exceeded",
			})
		},
	}))

	health := handlers.NewHealthHandler(db)
	app.Get("/health", health.Check)

	v1 := app.Group("/v1", middleware.JWTProtected(cfg))
	for _, p := range plugins {
		p.RegisterRoutes(v1, db, cfg)
		slog.Info("registered app routes", "app", p.ID())
	}
}
