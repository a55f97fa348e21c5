package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/verdantapp/verdant-backend/internal/config"
	"github.com/verdantapp/verdant-backend/internal/dto"
)

// JWTProtected guards a route group. A missing or invalid token yields
// 403 Forbidden, matching the eligibility failures downstream so an
// unauthenticated caller learns nothing about what exists.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   "Forbidden",
				Message: "Missing userID",
			})
		},
	})
}
