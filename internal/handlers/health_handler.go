package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/database"
	"github.com/verdantapp/verdant-backend/internal/dto"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service liveness and database reachability.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := database.Ping(h.db); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{
			Status:    "degraded",
			Timestamp: now,
			DB:        "unreachable",
		})
	}
	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: now,
		DB:        "ok",
	})
}
