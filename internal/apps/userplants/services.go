package userplants

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/database"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrNoRowsAffected = errors.New("no rows affected")
	ErrNoPhotoStore   = errors.New("photo storage is not configured")
)

var updatableColumns = []string{"s3_id", "name", "notes"}

// PhotoStore is the slice of the storage layer this service needs.
type PhotoStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

type Service struct {
	db     *gorm.DB
	photos PhotoStore
}

// NewService creates the user-plants service. photos may be nil, in
// which case uploads are rejected and photo URLs are omitted.
func NewService(db *gorm.DB, photos PhotoStore) *Service {
	return &Service{db: db, photos: photos}
}

// UploadPhoto stores the photo bytes under key.
func (s *Service) UploadPhoto(ctx context.Context, key, contentType string, body io.Reader) error {
	if s.photos == nil {
		return ErrNoPhotoStore
	}
	return s.photos.Upload(ctx, key, contentType, body)
}

// Create inserts the plant row. When the insert fails after a photo
// was uploaded, the orphaned object is deleted best-effort.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateUserPlantRequest, uploadedKey string) (*UserPlant, error) {
	p := UserPlant{
		ID:     uuid.New(),
		UserID: userID,
		S3ID:   req.S3ID,
		Name:   req.Name,
		Notes:  req.Notes,
	}
	if uploadedKey != "" {
		p.S3ID = uploadedKey
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&p).Error
	})
	if err != nil {
		if uploadedKey != "" && s.photos != nil {
			if delErr := s.photos.Delete(ctx, uploadedKey); delErr != nil {
				slog.Error("failed to delete orphaned plant photo", "key", uploadedKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("failed to create user plant: %w", err)
	}
	return &p, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*UserPlant, error) {
	var p UserPlant
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user plant: %w", err)
	}
	return &p, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]UserPlant, error) {
	var out []UserPlant
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user plants: %w", err)
	}
	return out, nil
}

func (s *Service) Search(ctx context.Context, userID uuid.UUID, searchValue string, limit, offset int) ([]UserPlant, error) {
	var out []UserPlant
	pattern := "%" + searchValue + "%"
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(notes) LIKE LOWER(?)", pattern, pattern).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search user plants: %w", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateUserPlantRequest) (*UserPlant, error) {
	set := database.NewUpdateSet(updatableColumns...)
	if req.S3ID != nil {
		_ = set.Set("s3_id", *req.S3ID)
	}
	if req.Name != nil {
		_ = set.Set("name", *req.Name)
	}
	if req.Notes != nil {
		_ = set.Set("notes", *req.Notes)
	}

	if set.Empty() {
		return nil, nil
	}

	var out UserPlant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p UserPlant
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForbidden
			}
			return err
		}

		res := tx.Model(&UserPlant{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(set.Assignments())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}

		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNoRowsAffected) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user plant: %w", err)
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&UserPlant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return err
		}
		return fmt.Errorf("failed to delete user plant: %w", err)
	}
	return nil
}

// WithPhotoURL wraps a plant with its presigned photo URL. Missing
// store or key just leaves the URL empty.
func (s *Service) WithPhotoURL(ctx context.Context, p UserPlant) PlantResponse {
	resp := PlantResponse{UserPlant: p}
	if s.photos == nil || p.S3ID == "" {
		return resp
	}
	url, err := s.photos.PresignedURL(ctx, p.S3ID)
	if err != nil {
		slog.Warn("failed to presign plant photo", "plant_id", p.ID, "error", err)
		return resp
	}
	resp.PhotoURL = url
	return resp
}

func (s *Service) WithPhotoURLs(ctx context.Context, plants []UserPlant) []PlantResponse {
	out := make([]PlantResponse, len(plants))
	for i, p := range plants {
		out[i] = s.WithPhotoURL(ctx, p)
	}
	return out
}
