package userplants

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/verdantapp/verdant-backend/internal/auth"
	"github.com/verdantapp/verdant-backend/internal/dto"
	"github.com/verdantapp/verdant-backend/internal/storage"
)

const maxPhotoSize = 10 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/heic": true,
	"image/webp": true,
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/userPlant/create with multipart/form-data.
// The photo part is optional; an s3ID form field referencing an
// already-uploaded object is accepted instead.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}

	req := CreateUserPlantRequest{
		S3ID:  c.FormValue("s3ID"),
		Name:  c.FormValue("name"),
		Notes: c.FormValue("notes"),
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	var uploadedKey string
	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxPhotoSize {
			return badRequest(c, "Photo must be less than 10MB")
		}
		contentType := file.Header.Get("Content-Type")
		if !allowedPhotoTypes[contentType] {
			return badRequest(c, "Invalid photo format. Only JPEG, PNG, HEIC and WebP are allowed")
		}

		src, err := file.Open()
		if err != nil {
			return badRequest(c, "Unreadable photo upload")
		}
		defer src.Close()

		uploadedKey = storage.RandomKey(userID)
		if err := h.service.UploadPhoto(c.Context(), uploadedKey, contentType, src); err != nil {
			if errors.Is(err, ErrNoPhotoStore) {
				return badRequest(c, "Photo uploads are not available")
			}
			return err
		}
	}

	p, err := h.service.Create(c.Context(), userID, req, uploadedKey)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"plantID": p.ID})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid plant id")
	}

	p, err := h.service.GetByID(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		return err
	}

	return c.JSON(fiber.Map{"plant": h.service.WithPhotoURL(c.Context(), *p)})
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

	return c.JSON(fiber.Map{"plants": h.service.WithPhotoURLs(c.Context(), ps)})
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

	return c.JSON(fiber.Map{"plants": h.service.WithPhotoURLs(c.Context(), ps)})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid plant id")
	}

	var req UpdateUserPlantRequest
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
				Message: "Plant was modified or removed concurrently",
			})
		}
		return err
	}

	if p == nil {
		return c.JSON(fiber.Map{"plant": nil})
	}
	return c.JSON(fiber.Map{"plant": h.service.WithPhotoURL(c.Context(), *p)})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return forbidden(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid plant id")
	}

	if err := h.service.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, ErrForbidden) {
			return forbidden(c)
		}
		return err
	}

	return c.JSON(fiber.Map{"plantID": id})
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
