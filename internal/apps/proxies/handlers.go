package proxies

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

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}

	var req CreateProxyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	p, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"proxyID": p.ID})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid proxy id")
	}

	p, err := h.service.GetByID(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		return err
	}

	return c.JSON(fiber.Map{"proxy": p})
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}

	ps, err := h.service.ListByUser(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"proxys": ps})
}

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

	ps, err := h.service.Search(c.Context(), userID, searchValue, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"proxys": ps})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid proxy id")
	}

	var req UpdateProxyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	p, err := h.service.Update(c.Context(), userID, id, req)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		if errors.Is(err, ErrNoRowsAffected) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error:   "Conflict",
				Message: "Proxy contact was modified or removed concurrently",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{"proxy": p})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid proxy id")
	}

	if err := h.service.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		return err
	}

	return c.JSON(fiber.Map{"proxyID": id})
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
