package reminders

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/verdantapp/verdant-backend/internal/auth"
	"github.com/verdantapp/verdant-backend/internal/dto"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/reminder/create.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}

	var req CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	r, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reminderID": r.ID})
}

// Get handles GET /v1/reminder/:id.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reminder id")
	}

	r, err := h.service.GetByID(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		return err
	}

	return c.JSON(fiber.Map{"reminder": r})
}

// List handles GET /v1/reminders.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}

	rs, err := h.service.ListByUser(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"reminders": rs})
}

// Search handles GET /v1/reminders/search?searchValue=&limit=&offset=.
func (h *Handler) Search(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}

	searchValue := c.Query("searchValue")
	if searchValue == "" {
		return badRequest(c, "No search was entered")
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 40 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	rs, err := h.service.Search(c.Context(), userID, searchValue, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"reminders": rs})
}

// Update handles PUT /v1/reminder/:id. Supplying no fields is a no-op
// that returns a null reminder.
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reminder id")
	}

	var req UpdateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	r, err := h.service.Update(c.Context(), userID, id, req)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		if errors.Is(err, ErrNoRowsAffected) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error:   "Conflict",
				Message: "Reminder was modified or removed concurrently",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{"reminder": r})
}

// Delete handles DELETE /v1/reminder/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reminder id")
	}

	if err := h.service.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		return err
	}

	return c.JSON(fiber.Map{"reminderID": id})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error:   "Forbidden",
		Message: "Missing userID",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "BadRequest",
		Message: msg,
	})
}
